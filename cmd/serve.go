package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/lifesim/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeMaxSessions  int
	flagServeIdleTimeout  time.Duration
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projection sessions over HTTP",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe a running server's status endpoint",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default: config server.addr)")
	serveCmd.Flags().IntVar(&flagServeMaxSessions, "max-sessions", 0, "Maximum concurrent sessions (default: config server.max_sessions)")
	serveCmd.Flags().DurationVar(&flagServeIdleTimeout, "idle-timeout", 30*time.Minute, "Evict sessions unused for this long (0 keeps them)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

// serveAddr resolves the listen address from the flag, then the config.
func serveAddr() (string, error) {
	if flagServeAddr != "" {
		return flagServeAddr, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Server.Addr, nil
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	maxSessions := cfg.Server.MaxSessions
	if flagServeMaxSessions > 0 {
		maxSessions = flagServeMaxSessions
	}

	svc := server.New(server.Config{
		Addr:         addr,
		MaxSessions:  maxSessions,
		IdleTimeout:  flagServeIdleTimeout,
		EventsBuffer: flagServeEventsBuffer,
		Logger:       newLogger("server"),
	})

	fmt.Printf("  lifesim listening on http://%s\n", addr)
	fmt.Printf("  Up to %d sessions", maxSessions)
	if flagServeIdleTimeout > 0 {
		fmt.Printf(", idle after %s", flagServeIdleTimeout)
	}
	fmt.Println()
	fmt.Println("  Stop with Ctrl+C")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr, err := serveAddr()
	if err != nil {
		return err
	}
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s (%s ago)\n", st.StartedAt.Local().Format(time.RFC3339), time.Since(st.StartedAt).Round(time.Second))
	fmt.Printf("  Sessions: %d/%d\n", st.Sessions, st.MaxSessions)
	if st.IdleTimeoutSec > 0 {
		fmt.Printf("  Idle timeout: %s\n", time.Duration(st.IdleTimeoutSec)*time.Second)
	}
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	return nil
}

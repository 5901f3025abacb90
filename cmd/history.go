package cmd

import (
	"fmt"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/projection"

	"github.com/spf13/cobra"
)

var flagHistoryTo int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the balance year by year up to an age",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryTo, "to", 0, "Last age to project (default: configured horizon)")
	rootCmd.AddCommand(historyCmd)
}

// targetAge resolves a --to flag against the configured horizon.
func targetAge(to, horizon int) (int, error) {
	if to == 0 {
		to = horizon
	}
	if to < 0 || to > cli.MaxAge {
		return 0, fmt.Errorf("--to %d: %w", to, cli.ErrAgeRange)
	}
	return to, nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, _, e, err := prepare("history")
	if err != nil {
		return err
	}
	to, err := targetAge(flagHistoryTo, cfg.General.Horizon)
	if err != nil {
		return err
	}

	points := e.ProjectRange(to)
	p := e.Person()

	fmt.Println()
	fmt.Print(cli.RenderTable(historyTable(p.Name, points)))

	vals := make([]float64, len(points))
	for i, pt := range points {
		vals[i] = pt.Balance
	}
	if len(vals) > 1 {
		fmt.Println()
		fmt.Printf("  %d-%d  %s\n", points[0].Age, points[len(points)-1].Age, cli.RenderSparkline(vals))
	}
	if to < p.Age && e.BackwardMode() == projection.BackwardFallback {
		fmt.Println(cli.RenderWarning("ages before the current age are not projected in fallback mode (use --backward invert)"))
	}
	fmt.Println()
	return nil
}

func historyTable(name string, points []projection.Point) cli.Table {
	rows := make([][]string, 0, len(points))
	for i, pt := range points {
		change := ""
		if i > 0 && points[i-1].Age == pt.Age-1 {
			change = cli.FormatDelta(pt.Balance - points[i-1].Balance)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", pt.Age),
			cli.FormatMoney(pt.Balance),
			change,
		})
	}
	return cli.Table{
		Title:   "Balance History: " + name,
		Headers: []string{"Age", "Balance", "Change"},
		Rows:    rows,
	}
}

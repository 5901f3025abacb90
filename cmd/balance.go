package cmd

import (
	"fmt"

	"github.com/theirongolddev/lifesim/internal/cli"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance AGE...",
	Short: "Project the balance at one or more ages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(_ *cobra.Command, args []string) error {
	// Ages are checked before anything is projected.
	ages := make([]int, len(args))
	for i, a := range args {
		age, err := cli.ParseAge(a)
		if err != nil {
			return fmt.Errorf("age %q: %w", a, err)
		}
		ages[i] = age
	}

	_, log, e, err := prepare("balance")
	if err != nil {
		return err
	}
	p := e.Person()
	now := p.CurrentBalance()

	rows := make([][]string, 0, len(ages))
	var approx bool
	for _, age := range ages {
		proj := e.Project(age)
		log.Debug("projected", "age", age, "balance", proj.Balance, "source", proj.Source)
		source := proj.Source.String()
		if proj.Approximated() {
			approx = true
			source += " *"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", age),
			cli.FormatMoney(proj.Balance),
			cli.FormatDelta(proj.Balance - now),
			source,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Balance for %s (age %d, %s)", p.Name, p.Age, cli.FormatMoney(now)),
		Headers: []string{"Age", "Balance", "Change", "Source"},
		Rows:    rows,
	}))
	if approx {
		fmt.Println(cli.RenderWarning("* before the current age: showing the current balance (use --backward invert to walk back)"))
	}
	fmt.Println()
	return nil
}

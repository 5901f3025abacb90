package cmd

import (
	"fmt"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/projection"

	"github.com/spf13/cobra"
)

var flagAnalyticsTo int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Yearly expenses, incomes and net change with the depletion age",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&flagAnalyticsTo, "to", 0, "Last age to project (default: configured horizon)")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(_ *cobra.Command, _ []string) error {
	cfg, _, e, err := prepare("analytics")
	if err != nil {
		return err
	}
	to, err := targetAge(flagAnalyticsTo, cfg.General.Horizon)
	if err != nil {
		return err
	}
	e.ProjectRange(to)
	rows := e.Report()
	p := e.Person()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("  Analytics: %s  ", p.Name)))
	fmt.Println()

	// Totals cover the years walked between the current age and the target.
	var totalExp, totalInc float64
	for _, r := range rows {
		if r.Age >= p.Age && r.Age < to {
			totalExp += r.Expenses
			totalInc += r.Incomes
		}
	}
	fmt.Println(cli.RenderKV("Years projected", fmt.Sprintf("%d", len(rows))))
	fmt.Println(cli.RenderKV("Total expenses", cli.FormatMoney(totalExp)))
	fmt.Println(cli.RenderKV("Total incomes", cli.FormatMoney(totalInc)))
	if age, ok := e.DepletionAge(); ok {
		fmt.Println(cli.RenderKV("Depletion age", fmt.Sprintf("%d", age)))
		fmt.Println(cli.RenderWarning(fmt.Sprintf("the balance goes negative at age %d", age)))
	} else {
		fmt.Println(cli.RenderKV("Depletion age", "never (within projection)"))
	}
	fmt.Println()

	fmt.Print(cli.RenderTable(reportTable(rows)))
	fmt.Println(cli.RenderNote("Expenses and incomes are the yearly totals active at each age; net is the change since the previous row."))
	fmt.Println()
	return nil
}

func reportTable(rows []projection.Row) cli.Table {
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		net := "-"
		if i > 0 {
			net = cli.FormatDelta(r.NetChange)
		}
		out = append(out, []string{
			fmt.Sprintf("%d", r.Age),
			cli.FormatMoney(r.Balance),
			cli.FormatMoney(r.Expenses),
			cli.FormatMoney(r.Incomes),
			net,
		})
	}
	return cli.Table{
		Title:   "Yearly Report",
		Headers: []string{"Age", "Balance", "Expenses", "Incomes", "Net"},
		Rows:    out,
	}
}

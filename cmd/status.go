package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the person, current balance and recurring items",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, _, e, err := prepare("status")
	if err != nil {
		return err
	}
	p := e.Person()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("  %s  |  Age %d  ", p.Name, p.Age)))
	fmt.Println()
	fmt.Println(cli.RenderKV("Current balance", cli.RenderMoney(p.CurrentBalance())))
	fmt.Println(cli.RenderKV("Expenses", strconv.Itoa(len(p.Expenses))))
	fmt.Println(cli.RenderKV("Incomes", strconv.Itoa(len(p.Incomes))))

	exp, inc := e.YearlyTotals(p.Age)
	fmt.Println(cli.RenderKV("This year", cli.FormatDelta(inc-exp)))

	horizon := cfg.General.Horizon
	if horizon > p.Age {
		proj := e.Project(horizon)
		fmt.Println(cli.RenderKV(fmt.Sprintf("Balance at %d", horizon), cli.RenderMoney(proj.Balance)))
	}
	fmt.Println()

	if len(p.Expenses)+len(p.Incomes) > 0 {
		fmt.Print(cli.RenderTable(itemsTable(p)))
		fmt.Println()
	}
	return nil
}

// itemsTable lists expenses then incomes with their yearly amounts.
func itemsTable(p *model.Person) cli.Table {
	var rows [][]string
	for _, role := range []model.Role{model.RoleExpense, model.RoleIncome} {
		items := p.Items(role)
		if len(items) == 0 {
			continue
		}
		if len(rows) > 0 {
			rows = append(rows, []string{"---"})
		}
		for _, it := range items {
			rows = append(rows, []string{
				string(role),
				it.Name,
				cli.FormatMoney(it.Amount),
				it.Frequency.String(),
				cli.FormatMoney(it.YearlyAmount()),
				cli.FormatAgeRange(it.StartAge, it.EndAge),
			})
		}
	}
	return cli.Table{
		Title:   "Recurring Items",
		Headers: []string{"Role", "Name", "Amount", "Frequency", "Per Year", "Ages"},
		Rows:    rows,
	}
}

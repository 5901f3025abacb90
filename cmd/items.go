package cmd

import (
	"fmt"

	"github.com/theirongolddev/lifesim/internal/cli"
	"github.com/theirongolddev/lifesim/internal/model"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List recurring expenses and incomes",
	RunE:  runItems,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}

func runItems(_ *cobra.Command, _ []string) error {
	_, _, e, err := prepare("items")
	if err != nil {
		return err
	}
	p := e.Person()

	fmt.Println()
	if len(p.Expenses)+len(p.Incomes) == 0 {
		fmt.Printf("  %s has no recurring items.\n\n", p.Name)
		return nil
	}
	fmt.Print(cli.RenderTable(itemsTable(p)))
	fmt.Println()

	// Yearly weight of each item against the largest one.
	var largest float64
	for _, role := range []model.Role{model.RoleExpense, model.RoleIncome} {
		for _, it := range p.Items(role) {
			largest = max(largest, it.YearlyAmount())
		}
	}
	for _, role := range []model.Role{model.RoleExpense, model.RoleIncome} {
		for _, it := range p.Items(role) {
			label := fmt.Sprintf("%s %-18s %12s", roleSign(role), it.Name, cli.FormatMoneyShort(it.YearlyAmount()))
			fmt.Println(cli.RenderHorizontalBar(label, it.YearlyAmount(), largest, 30))
		}
	}
	fmt.Println()
	return nil
}

func roleSign(role model.Role) string {
	if role == model.RoleIncome {
		return "+"
	}
	return "-"
}

package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/lifesim/internal/model"
)

func TestReport(t *testing.T) {
	e := newEngine(t, 30, 1000)
	e.AddExpense(mustItem(t, "Rent", 100, model.Monthly, 30, nil))
	e.AddIncome(mustItem(t, "Job", 500, model.Yearly, 31, model.Ends(32)))
	e.BalanceAt(33)

	rows := e.Report()
	require.Len(t, rows, 4)

	assert.Equal(t, Row{Age: 30, Balance: 1000, Expenses: 1200}, rows[0])
	assert.Equal(t, Row{Age: 31, Balance: -200, Expenses: 1200, Incomes: 500, NetChange: -1200}, rows[1])
	assert.Equal(t, Row{Age: 32, Balance: -900, Expenses: 1200, NetChange: -700}, rows[2])
	assert.Equal(t, Row{Age: 33, Balance: -2100, Expenses: 1200, NetChange: -1200}, rows[3])
}

func TestReportRowsUseItemsActiveAtAge(t *testing.T) {
	e := newEngine(t, 30, 1000)
	e.AddExpense(mustItem(t, "Course", 100, model.Yearly, 31, model.Ends(32)))
	e.BalanceAt(33)

	rows := e.Report()
	require.Len(t, rows, 4)
	for _, r := range rows {
		exp, _ := e.YearlyTotals(r.Age)
		assert.Equal(t, exp, r.Expenses, "age %d", r.Age)
	}
	assert.Equal(t, 100.0, rows[1].Expenses, "active at 31")
	assert.Zero(t, rows[2].Expenses, "ended before 32")
	assert.Equal(t, -100.0, rows[2].NetChange, "the year at 31 lowers the balance at 32")
}

func TestReportNetChangeAcrossGaps(t *testing.T) {
	e := newEngine(t, 30, 1000)
	e.AddIncome(mustItem(t, "Job", 500, model.Yearly, 30, nil))
	e.BalanceAt(32)
	e.Person().BalanceHistory[40] = 9000

	rows := e.Report()
	require.Len(t, rows, 4)
	assert.Equal(t, 40, rows[3].Age)
	assert.Equal(t, 9000.0-2000.0, rows[3].NetChange, "measured against the previous memoized age")
	assert.Equal(t, 500.0, rows[3].Incomes)
}

func TestDepletionAge(t *testing.T) {
	e := newEngine(t, 30, 1000)
	_, ok := e.DepletionAge()
	assert.False(t, ok)

	e.AddExpense(mustItem(t, "Rent", 400, model.Yearly, 30, nil))
	e.BalanceAt(40)

	age, ok := e.DepletionAge()
	require.True(t, ok)
	assert.Equal(t, 33, age)
}

func TestDepletionAgeIgnoresAgesBeforeReference(t *testing.T) {
	e := newEngine(t, 30, 1000, WithBackwardMode(BackwardInvert))
	e.AddIncome(mustItem(t, "Job", 10000, model.Yearly, 0, nil))

	require.Equal(t, -49000.0, e.BalanceAt(25))
	require.Equal(t, 101000.0, e.BalanceAt(40))

	_, ok := e.DepletionAge()
	assert.False(t, ok, "a negative balance walked back before the reference age is not depletion")

	e.AddExpense(mustItem(t, "Rent", 20000, model.Yearly, 35, nil))
	e.BalanceAt(50)
	age, ok := e.DepletionAge()
	require.True(t, ok)
	assert.Equal(t, 41, age)
}

func TestProjectRange(t *testing.T) {
	e := newEngine(t, 50, 10)
	e.BalanceAt(70)

	points := e.ProjectRange(55)
	require.Len(t, points, 6)
	assert.Equal(t, 50, points[0].Age)
	assert.Equal(t, 55, points[5].Age)

	back := e.ProjectRange(45)
	require.Len(t, back, 1, "fallback mode adds nothing before the reference age")
	assert.Equal(t, 50, back[0].Age)
}

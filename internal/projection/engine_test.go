package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/lifesim/internal/model"
)

func newEngine(t *testing.T, age int, capital float64, opts ...Option) *Engine {
	t.Helper()
	p, err := model.NewPerson("Test Person", age, capital)
	require.NoError(t, err)
	return New(p, opts...)
}

func mustItem(t *testing.T, name string, amount float64, freq model.Frequency, start int, end *int) model.Item {
	t.Helper()
	it, err := model.NewItem(name, amount, freq, start, end)
	require.NoError(t, err)
	return it
}

func TestBalanceAt_MonthlyRent(t *testing.T) {
	e := newEngine(t, 25, 50000)
	e.AddExpense(mustItem(t, "Rent", 1000, model.Monthly, 25, nil))

	assert.Equal(t, -10000.0, e.BalanceAt(30))
}

func TestBalanceAt_EndingExpense(t *testing.T) {
	e := newEngine(t, 30, 60000)
	e.AddExpense(mustItem(t, "Car Payment", 300, model.Monthly, 30, model.Ends(40)))

	assert.Equal(t, 24000.0, e.BalanceAt(45))
}

func TestBalanceAt_DailyExpense(t *testing.T) {
	e := newEngine(t, 22, 45000)
	e.AddExpense(mustItem(t, "Coffee", 5, model.Daily, 22, nil))

	assert.Equal(t, 43175.0, e.BalanceAt(23))
}

func TestBalanceAt_MultipleExpenses(t *testing.T) {
	e := newEngine(t, 20, 40000)
	e.AddExpense(mustItem(t, "Rent", 800, model.Monthly, 20, nil))
	e.AddExpense(mustItem(t, "Food", 300, model.Monthly, 20, nil))

	assert.Equal(t, -26000.0, e.BalanceAt(25))
}

func TestBalanceAt_NoItemsKeepsCapital(t *testing.T) {
	e := newEngine(t, 40, 12345.5)

	assert.Equal(t, 12345.5, e.BalanceAt(55))
	for age := 40; age <= 55; age++ {
		b, ok := e.History()[age]
		require.True(t, ok, "age %d not memoized", age)
		assert.Equal(t, 12345.5, b, "age %d", age)
	}
}

func TestBalanceAt_ReferenceAge(t *testing.T) {
	e := newEngine(t, 30, 1000)
	e.AddExpense(mustItem(t, "Rent", 10, model.Yearly, 0, nil))

	p := e.Project(30)
	assert.Equal(t, 1000.0, p.Balance)
	assert.Equal(t, SourceReference, p.Source)
}

func TestBalanceAt_Idempotent(t *testing.T) {
	e := newEngine(t, 25, 50000)
	e.AddExpense(mustItem(t, "Rent", 1000, model.Monthly, 25, nil))
	e.AddIncome(mustItem(t, "Salary", 3000, model.Monthly, 25, model.Ends(28)))

	first := e.Project(32)
	second := e.Project(32)

	assert.Equal(t, SourceForward, first.Source)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Balance, second.Balance)
}

func TestBalanceAt_MemoizesEveryIntermediateAge(t *testing.T) {
	e := newEngine(t, 18, 0)
	e.AddIncome(mustItem(t, "Allowance", 100, model.Yearly, 18, nil))

	e.BalanceAt(30)

	points := e.Points()
	require.Len(t, points, 13)
	for i, pt := range points {
		assert.Equal(t, 18+i, pt.Age)
		assert.Equal(t, float64(100*i), pt.Balance)
	}
}

func TestBalanceAt_IncomeWindow(t *testing.T) {
	e := newEngine(t, 20, 0)
	e.AddIncome(mustItem(t, "Internship", 1000, model.Yearly, 22, model.Ends(24)))

	assert.Equal(t, 0.0, e.BalanceAt(22), "income not active before its start age")
	assert.Equal(t, 2000.0, e.BalanceAt(24))
	assert.Equal(t, 2000.0, e.BalanceAt(30), "income stops at its end age")
}

func TestBalanceAt_ResumesFromNearestCachedAge(t *testing.T) {
	build := func() *Engine {
		e := newEngine(t, 30, 10000)
		e.AddExpense(mustItem(t, "Rent", 500, model.Monthly, 30, nil))
		e.AddIncome(mustItem(t, "Job", 700, model.Monthly, 31, model.Ends(36)))
		return e
	}

	stepwise := build()
	stepwise.BalanceAt(33)
	got := stepwise.BalanceAt(40)

	direct := build()
	assert.Equal(t, direct.BalanceAt(40), got)
	assert.Equal(t, direct.History(), stepwise.History())
}

func TestAddExpense_InvalidatesAffectedAges(t *testing.T) {
	e := newEngine(t, 25, 50000)
	e.BalanceAt(30)

	e.AddExpense(mustItem(t, "Rent", 1000, model.Monthly, 27, nil))

	h := e.History()
	for age := 25; age <= 27; age++ {
		assert.Contains(t, h, age, "age %d does not depend on the new expense", age)
	}
	for age := 28; age <= 30; age++ {
		assert.NotContains(t, h, age, "age %d should be dropped", age)
	}
	assert.Equal(t, 50000.0-3*12000, e.BalanceAt(30))
}

func TestAddIncome_BeforeReferenceAgeDropsEverything(t *testing.T) {
	e := newEngine(t, 30, 0, WithBackwardMode(BackwardInvert))
	e.BalanceAt(35)
	e.BalanceAt(27)

	e.AddIncome(mustItem(t, "Pension", 100, model.Yearly, 10, nil))

	assert.Equal(t, map[int]float64{30: 0}, e.History())
	assert.Equal(t, 500.0, e.BalanceAt(35))
	assert.Equal(t, -300.0, e.BalanceAt(27))
}

func TestProject_BackwardFallback(t *testing.T) {
	e := newEngine(t, 25, 50000)
	e.AddExpense(mustItem(t, "Rent", 1000, model.Monthly, 20, nil))

	p := e.Project(21)

	assert.True(t, p.Approximated())
	assert.Equal(t, SourceFallback, p.Source)
	assert.Equal(t, 50000.0, p.Balance)
	assert.Equal(t, map[int]float64{25: 50000}, e.History(), "fallback writes nothing")
}

func TestProject_BackwardInvert(t *testing.T) {
	e := newEngine(t, 30, 60000, WithBackwardMode(BackwardInvert))
	e.AddIncome(mustItem(t, "Job", 1000, model.Yearly, 0, nil))
	e.AddExpense(mustItem(t, "Gym", 300, model.Yearly, 25, nil))

	p := e.Project(28)
	assert.Equal(t, SourceBackward, p.Source)
	assert.False(t, p.Approximated())
	assert.Equal(t, 58600.0, p.Balance)
	assert.Contains(t, e.History(), 29)

	// Years 25-27 carry the gym, years 21-24 only the job.
	assert.Equal(t, 58600.0-3*700-4*1000, e.BalanceAt(21))
}

func TestProject_BackwardInvertRoundTrips(t *testing.T) {
	e := newEngine(t, 40, 100000, WithBackwardMode(BackwardInvert))
	e.AddExpense(mustItem(t, "Rent", 900, model.Monthly, 18, nil))
	e.AddIncome(mustItem(t, "Salary", 2500, model.Monthly, 22, model.Ends(60)))
	past := e.BalanceAt(20)

	p, err := model.NewPerson("Past Self", 20, past)
	require.NoError(t, err)
	replay := New(p)
	for _, it := range e.Person().Expenses {
		replay.AddExpense(it)
	}
	for _, it := range e.Person().Incomes {
		replay.AddIncome(it)
	}

	assert.InDelta(t, 100000.0, replay.BalanceAt(40), 1e-6)
}

func TestHistoryIsACopy(t *testing.T) {
	e := newEngine(t, 30, 100)
	h := e.History()
	h[31] = 5

	assert.NotContains(t, e.History(), 31)
}

func TestSnapshotIsDetached(t *testing.T) {
	e := newEngine(t, 30, 100)
	e.AddExpense(mustItem(t, "Rent", 1, model.Yearly, 30, nil))

	snap := e.Snapshot()
	snap.Expenses[0].Amount = 99

	assert.Equal(t, 1.0, e.Person().Expenses[0].Amount)
}

func TestAddRoutesByRole(t *testing.T) {
	e := newEngine(t, 30, 0)
	e.Add(model.RoleIncome, mustItem(t, "Job", 10, model.Yearly, 30, nil))
	e.Add(model.RoleExpense, mustItem(t, "Rent", 4, model.Yearly, 30, nil))

	assert.Len(t, e.Person().Incomes, 1)
	assert.Len(t, e.Person().Expenses, 1)
	assert.Equal(t, 6.0, e.BalanceAt(31))
}

func TestParseBackwardMode(t *testing.T) {
	m, err := ParseBackwardMode("invert")
	require.NoError(t, err)
	assert.Equal(t, BackwardInvert, m)

	m, err = ParseBackwardMode("")
	require.NoError(t, err)
	assert.Equal(t, BackwardFallback, m)

	_, err = ParseBackwardMode("sideways")
	assert.Error(t, err)
}

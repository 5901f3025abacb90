package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, Yearly.Multiplier())
	assert.Equal(t, 12.0, Monthly.Multiplier())
	assert.Equal(t, 365.0, Daily.Multiplier())
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency(" Monthly ")
	require.NoError(t, err)
	assert.Equal(t, Monthly, f)

	_, err = ParseFrequency("weekly")
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestFrequencyTextRoundTrip(t *testing.T) {
	var f Frequency
	require.NoError(t, f.UnmarshalText([]byte("daily")))
	assert.Equal(t, Daily, f)

	text, err := Daily.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "daily", string(text))

	_, err = Frequency(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestItemActiveAt(t *testing.T) {
	bounded := Item{Name: "Car", Amount: 300, Frequency: Monthly, StartAge: 30, EndAge: Ends(40)}
	assert.False(t, bounded.ActiveAt(29))
	assert.True(t, bounded.ActiveAt(30))
	assert.True(t, bounded.ActiveAt(39))
	assert.False(t, bounded.ActiveAt(40), "end age is exclusive")

	ongoing := Item{Name: "Rent", Amount: 1000, Frequency: Monthly, StartAge: 25}
	assert.False(t, ongoing.ActiveAt(24))
	assert.True(t, ongoing.ActiveAt(25))
	assert.True(t, ongoing.ActiveAt(120))
}

func TestItemYearlyAmount(t *testing.T) {
	assert.Equal(t, 500.0, Item{Amount: 500, Frequency: Yearly}.YearlyAmount())
	assert.Equal(t, 12000.0, Item{Amount: 1000, Frequency: Monthly}.YearlyAmount())
	assert.Equal(t, 1825.0, Item{Amount: 5, Frequency: Daily}.YearlyAmount())
}

func TestNewItemValidation(t *testing.T) {
	it, err := NewItem("Salary", 4000, Monthly, 22, Ends(65))
	require.NoError(t, err)
	assert.Equal(t, 65, *it.EndAge)

	_, err = NewItem("Refund", -5, Yearly, 20, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewItem("Odd", math.Inf(1), Yearly, 20, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewItem("Early", 1, Yearly, -1, nil)
	assert.ErrorIs(t, err, ErrNegativeAge)

	_, err = NewItem("Early", 1, Yearly, 3, Ends(-2))
	assert.ErrorIs(t, err, ErrNegativeAge)

	_, err = NewItem("Backwards", 1, Yearly, 40, Ends(30))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewItem("Weekly", 1, Frequency(9), 40, nil)
	assert.ErrorIs(t, err, ErrUnknownFrequency)

	_, err = NewItem("Zero-length", 1, Yearly, 40, Ends(40))
	assert.NoError(t, err, "an empty window is allowed")
}

func TestNewItemCopiesEndAge(t *testing.T) {
	end := 50
	it, err := NewItem("Loan", 200, Monthly, 30, &end)
	require.NoError(t, err)
	end = 10
	assert.Equal(t, 50, *it.EndAge)
}

func TestYearlyTotal(t *testing.T) {
	items := []Item{
		{Amount: 800, Frequency: Monthly, StartAge: 20},
		{Amount: 300, Frequency: Monthly, StartAge: 20, EndAge: Ends(22)},
		{Amount: 1000, Frequency: Yearly, StartAge: 30},
	}
	assert.Equal(t, 13200.0, YearlyTotal(items, 21))
	assert.Equal(t, 9600.0, YearlyTotal(items, 22))
	assert.Equal(t, 10600.0, YearlyTotal(items, 30))
	assert.Zero(t, YearlyTotal(nil, 30))
}

func TestNewPersonSeedsHistory(t *testing.T) {
	p, err := NewPerson("John", 25, 50000)
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{25: 50000}, p.BalanceHistory)
	assert.Equal(t, 50000.0, p.CurrentBalance())

	_, err = NewPerson("Nobody", -1, 0)
	assert.ErrorIs(t, err, ErrNegativeAge)

	_, err = NewPerson("Nobody", 3, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPersonAppendAndClone(t *testing.T) {
	p, err := NewPerson("Jane", 30, 1000)
	require.NoError(t, err)
	p.AddExpense(Item{Name: "Car", Amount: 1, EndAge: Ends(40)})
	p.AddIncome(Item{Name: "Job", Amount: 2})

	cp := p.Clone()
	*cp.Expenses[0].EndAge = 99
	cp.BalanceHistory[31] = 5
	cp.Incomes[0].Name = "Other"

	assert.Equal(t, 40, *p.Expenses[0].EndAge)
	assert.NotContains(t, p.BalanceHistory, 31)
	assert.Equal(t, "Job", p.Items(RoleIncome)[0].Name)
	assert.Equal(t, "Car", p.Items(RoleExpense)[0].Name)
}

// Package model defines the entities lifesim projects: a person and the
// recurring items that move their balance.
package model

import (
	"fmt"
	"maps"
	"math"
)

// Person is the aggregate root of a projection.
type Person struct {
	Name     string  `json:"name"`
	Age      int     `json:"age" validate:"gte=0"` // reference age every projection starts from
	Capital  float64 `json:"capital"`
	Expenses []Item  `json:"expenses"`
	Incomes  []Item  `json:"incomes"`

	// BalanceHistory memoizes projected balances by age. It is a cache,
	// not a ledger, and its keys need not be contiguous.
	BalanceHistory map[int]float64 `json:"-"`
}

// NewPerson creates a person whose balance at age equals capital.
func NewPerson(name string, age int, capital float64) (*Person, error) {
	if math.IsNaN(capital) || math.IsInf(capital, 0) {
		return nil, fmt.Errorf("%w: capital %v", ErrInvalidAmount, capital)
	}
	p := &Person{
		Name:           name,
		Age:            age,
		Capital:        capital,
		BalanceHistory: map[int]float64{age: capital},
	}
	if err := validate.Struct(p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// AddExpense appends an expense.
func (p *Person) AddExpense(it Item) {
	p.Expenses = append(p.Expenses, it)
}

// AddIncome appends an income.
func (p *Person) AddIncome(it Item) {
	p.Incomes = append(p.Incomes, it)
}

// Items returns the sequence holding items of the given role.
func (p *Person) Items(role Role) []Item {
	if role == RoleIncome {
		return p.Incomes
	}
	return p.Expenses
}

// CurrentBalance returns the balance recorded at the reference age, or the
// starting capital when nothing is recorded there.
func (p *Person) CurrentBalance() float64 {
	if b, ok := p.BalanceHistory[p.Age]; ok {
		return b
	}
	return p.Capital
}

// Clone returns a deep copy.
func (p *Person) Clone() Person {
	cp := *p
	cp.Expenses = cloneItems(p.Expenses)
	cp.Incomes = cloneItems(p.Incomes)
	cp.BalanceHistory = maps.Clone(p.BalanceHistory)
	return cp
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

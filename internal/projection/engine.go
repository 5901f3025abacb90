// Package projection walks a person's balance across ages and memoizes every
// year it computes.
package projection

import (
	"fmt"
	"maps"
	"slices"

	"github.com/theirongolddev/lifesim/internal/model"
)

// BackwardMode selects what happens when an uncached age before the
// reference age is requested.
type BackwardMode int

const (
	// BackwardFallback answers with the reference balance and flags the
	// answer as approximated.
	BackwardFallback BackwardMode = iota
	// BackwardInvert undoes the forward step year by year.
	BackwardInvert
)

func (m BackwardMode) String() string {
	if m == BackwardInvert {
		return "invert"
	}
	return "fallback"
}

// ParseBackwardMode parses "fallback" or "invert". The empty string is
// fallback.
func ParseBackwardMode(s string) (BackwardMode, error) {
	switch s {
	case "", "fallback":
		return BackwardFallback, nil
	case "invert":
		return BackwardInvert, nil
	}
	return BackwardFallback, fmt.Errorf("unknown backward mode %q (want fallback or invert)", s)
}

// Source records how a projected balance was obtained.
type Source int

const (
	SourceReference Source = iota // the reference age itself
	SourceCache                   // already memoized
	SourceForward                 // computed by walking forward
	SourceBackward                // computed by inverting the forward step
	SourceFallback                // approximated with the reference balance
)

func (s Source) String() string {
	switch s {
	case SourceReference:
		return "reference"
	case SourceCache:
		return "cache"
	case SourceForward:
		return "forward"
	case SourceBackward:
		return "backward"
	case SourceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Projection is the answer to "what is the balance at this age".
type Projection struct {
	Age     int
	Balance float64
	Source  Source
}

// Approximated reports whether the balance is a stand-in rather than a
// computed value.
func (p Projection) Approximated() bool {
	return p.Source == SourceFallback
}

// Point is one memoized (age, balance) pair.
type Point struct {
	Age     int     `json:"age"`
	Balance float64 `json:"balance"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithBackwardMode sets how ages before the reference age are answered.
func WithBackwardMode(m BackwardMode) Option {
	return func(e *Engine) { e.backward = m }
}

// Engine owns one Person and is the only writer of its balance history.
// It is not safe for concurrent use.
type Engine struct {
	person   *model.Person
	backward BackwardMode
}

// New returns an engine that takes ownership of p.
func New(p *model.Person, opts ...Option) *Engine {
	if p.BalanceHistory == nil {
		p.BalanceHistory = map[int]float64{p.Age: p.Capital}
	}
	e := &Engine{person: p}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BackwardMode returns the configured backward mode.
func (e *Engine) BackwardMode() BackwardMode {
	return e.backward
}

// AddExpense appends an expense and drops the cached ages it affects.
func (e *Engine) AddExpense(it model.Item) {
	e.person.AddExpense(it)
	e.invalidate(it.StartAge)
}

// AddIncome appends an income and drops the cached ages it affects.
func (e *Engine) AddIncome(it model.Item) {
	e.person.AddIncome(it)
	e.invalidate(it.StartAge)
}

// Add routes it to the expense or income sequence.
func (e *Engine) Add(role model.Role, it model.Item) {
	if role == model.RoleIncome {
		e.AddIncome(it)
		return
	}
	e.AddExpense(it)
}

// invalidate removes every cached balance whose computation includes a year
// at or after startAge. The reference entry always survives.
func (e *Engine) invalidate(startAge int) {
	ref := e.person.Age
	floor := max(startAge, ref)
	for age := range e.person.BalanceHistory {
		switch {
		case age > floor:
			delete(e.person.BalanceHistory, age)
		case age < ref && startAge < ref:
			delete(e.person.BalanceHistory, age)
		}
	}
}

// BalanceAt returns the balance at target, computing and memoizing it when
// needed. It never fails; see Project for how the value was obtained.
func (e *Engine) BalanceAt(target int) float64 {
	return e.Project(target).Balance
}

// Project is BalanceAt with provenance.
func (e *Engine) Project(target int) Projection {
	p := e.person
	if target == p.Age {
		return Projection{Age: target, Balance: p.CurrentBalance(), Source: SourceReference}
	}
	if b, ok := p.BalanceHistory[target]; ok {
		return Projection{Age: target, Balance: b, Source: SourceCache}
	}
	if target > p.Age {
		return Projection{Age: target, Balance: e.forward(target), Source: SourceForward}
	}
	if e.backward == BackwardInvert {
		return Projection{Age: target, Balance: e.backwardTo(target), Source: SourceBackward}
	}
	return Projection{Age: target, Balance: p.CurrentBalance(), Source: SourceFallback}
}

// forward walks from the nearest known age below target, writing every
// intermediate year.
func (e *Engine) forward(target int) float64 {
	p := e.person
	age := target - 1
	for age > p.Age {
		if _, ok := p.BalanceHistory[age]; ok {
			break
		}
		age--
	}

	balance := p.CurrentBalance()
	if age > p.Age {
		balance = p.BalanceHistory[age]
	}
	for ; age < target; age++ {
		balance = balance - model.YearlyTotal(p.Expenses, age) + model.YearlyTotal(p.Incomes, age)
		p.BalanceHistory[age+1] = balance
	}
	return balance
}

// backwardTo walks from the nearest known age above target, undoing one
// year at a time.
func (e *Engine) backwardTo(target int) float64 {
	p := e.person
	age := target + 1
	for age < p.Age {
		if _, ok := p.BalanceHistory[age]; ok {
			break
		}
		age++
	}

	balance := p.CurrentBalance()
	if age < p.Age {
		balance = p.BalanceHistory[age]
	}
	for ; age > target; age-- {
		prev := age - 1
		balance = balance + model.YearlyTotal(p.Expenses, prev) - model.YearlyTotal(p.Incomes, prev)
		p.BalanceHistory[prev] = balance
	}
	return balance
}

// YearlyTotals returns the yearly expense and income totals active at age.
func (e *Engine) YearlyTotals(age int) (expenses, incomes float64) {
	return model.YearlyTotal(e.person.Expenses, age), model.YearlyTotal(e.person.Incomes, age)
}

// History returns a copy of the memoized balances.
func (e *Engine) History() map[int]float64 {
	return maps.Clone(e.person.BalanceHistory)
}

// Points returns the memoized balances sorted by age.
func (e *Engine) Points() []Point {
	ages := slices.Sorted(maps.Keys(e.person.BalanceHistory))
	points := make([]Point, len(ages))
	for i, age := range ages {
		points[i] = Point{Age: age, Balance: e.person.BalanceHistory[age]}
	}
	return points
}

// Person returns the owned person. Add items through the engine so the
// cache stays consistent.
func (e *Engine) Person() *model.Person {
	return e.person
}

// Snapshot returns a deep copy of the owned person.
func (e *Engine) Snapshot() model.Person {
	return e.person.Clone()
}

package projection

// Row is one year of the analytics report.
type Row struct {
	Age     int     `json:"age"`
	Balance float64 `json:"balance"`
	// Expenses and Incomes are the yearly totals of the items active at
	// Age, i.e. the year that starts at Age.
	Expenses float64 `json:"expenses"`
	Incomes  float64 `json:"incomes"`
	// NetChange is Balance minus the balance of the previous memoized age,
	// which may be more than one year earlier. Zero for the first row.
	NetChange float64 `json:"net_change"`
}

// Report builds one row per memoized age, oldest first.
func (e *Engine) Report() []Row {
	points := e.Points()
	rows := make([]Row, len(points))
	for i, pt := range points {
		row := Row{Age: pt.Age, Balance: pt.Balance}
		row.Expenses, row.Incomes = e.YearlyTotals(pt.Age)
		if i > 0 {
			row.NetChange = pt.Balance - points[i-1].Balance
		}
		rows[i] = row
	}
	return rows
}

// DepletionAge returns the first memoized age, from the reference age on,
// at which the balance is negative. Ages walked back before the reference
// age are history, not depletion.
func (e *Engine) DepletionAge() (int, bool) {
	for _, pt := range e.Points() {
		if pt.Age >= e.person.Age && pt.Balance < 0 {
			return pt.Age, true
		}
	}
	return 0, false
}

// ProjectRange projects every age from the reference age up to target and
// returns the resulting points in that range.
func (e *Engine) ProjectRange(target int) []Point {
	from := e.person.Age
	if target < from {
		from, target = target, from
	}
	e.BalanceAt(target)
	var points []Point
	for _, pt := range e.Points() {
		if pt.Age >= from && pt.Age <= target {
			points = append(points, pt)
		}
	}
	return points
}

// Package aggregate derives balances, monthly totals, goal progress and the
// category breakdown from a ledger snapshot.
//
// Every function is pure and rescans its input; nothing is cached between
// calls, so results can never be stale.
package aggregate

import (
	"cofrinho/internal/core"
)

// Totals are the income and expense sums of one month.
type Totals struct {
	Income  float64
	Expense float64
}

// Balance is income minus expense.
func (t Totals) Balance() float64 {
	return t.Income - t.Expense
}

// Salaries holds the two free-text salary inputs as typed by the user.
type Salaries struct {
	A string
	B string
}

// For returns the parsed salary of owner. Invalid text counts as zero and
// Both has no salary.
func (s Salaries) For(owner core.Owner) float64 {
	switch owner {
	case core.PersonA:
		return core.ParseSalary(s.A)
	case core.PersonB:
		return core.ParseSalary(s.B)
	}
	return 0
}

// Total is the sum of both parsed salaries.
func (s Salaries) Total() float64 {
	return core.ParseSalary(s.A) + core.ParseSalary(s.B)
}

// Goal is the progress of one savings goal.
type Goal struct {
	Category core.Category
	Sum      float64
	Target   float64
}

// Percent is the display percentage, clamped to [0, 100]. Sum itself is
// never clamped.
func (g Goal) Percent() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := 100 * g.Sum / g.Target
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Goals groups both savings goals.
type Goals struct {
	Cruise Goal
	Car    Goal
}

// CategoryAmount is one slice of the expense breakdown.
type CategoryAmount struct {
	Category core.Category
	Amount   float64
}

// FilterMonth keeps the entries that occurred in month index m (0-11) of any
// year, preserving order. Out-of-range indexes are wrapped.
func FilterMonth(entries []core.Entry, m int) []core.Entry {
	m = core.WrapMonth(m)
	out := make([]core.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Month() == m {
			out = append(out, e)
		}
	}
	return out
}

// MonthlyTotals sums income and expense over monthEntries and adds both
// salaries to income. Any kind other than income counts as expense.
func MonthlyTotals(monthEntries []core.Entry, salaries Salaries) Totals {
	var t Totals
	for _, e := range monthEntries {
		if e.Kind == core.Income {
			t.Income += e.Amount
		} else {
			t.Expense += e.Amount
		}
	}
	t.Income += salaries.Total()
	return t
}

// PersonBalance sums the signed amounts of owner's entries across the whole
// history and adds salary. Entries owned by Both never count.
func PersonBalance(entries []core.Entry, owner core.Owner, salary float64) float64 {
	var sum float64
	for _, e := range entries {
		if e.Owner == owner {
			sum += e.Signed()
		}
	}
	return sum + salary
}

// GoalProgress sums every Cruise and Car entry of the whole history,
// whatever its kind.
func GoalProgress(entries []core.Entry) Goals {
	g := Goals{
		Cruise: Goal{Category: core.Cruise, Target: core.CruiseTarget},
		Car:    Goal{Category: core.Car, Target: core.CarTarget},
	}
	for _, e := range entries {
		switch e.Category {
		case core.Cruise:
			g.Cruise.Sum += e.Amount
		case core.Car:
			g.Car.Sum += e.Amount
		}
	}
	return g
}

// CategoryBreakdown groups the expense entries of monthEntries by category.
// Groups keep the order in which their category first appears.
func CategoryBreakdown(monthEntries []core.Entry) []CategoryAmount {
	index := map[core.Category]int{}
	out := []CategoryAmount{}
	for _, e := range monthEntries {
		if e.Kind != core.Expense {
			continue
		}
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryAmount{Category: e.Category})
		}
		out[i].Amount += e.Amount
	}
	return out
}

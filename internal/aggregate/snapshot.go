package aggregate

import "cofrinho/internal/core"

// State is the explicit view state a query is computed for.
type State struct {
	Month    int
	Salaries Salaries
}

// Snapshot is everything the dashboard shows for one State.
type Snapshot struct {
	Month        int
	MonthName    string
	MonthEntries []core.Entry
	Totals       Totals
	BalanceA     float64
	BalanceB     float64
	Goals        Goals
	Breakdown    []CategoryAmount
}

// Compute derives a full Snapshot from the ledger and st.
func Compute(entries []core.Entry, st State) Snapshot {
	m := core.WrapMonth(st.Month)
	month := FilterMonth(entries, m)
	return Snapshot{
		Month:        m,
		MonthName:    core.MonthName(m),
		MonthEntries: month,
		Totals:       MonthlyTotals(month, st.Salaries),
		BalanceA:     PersonBalance(entries, core.PersonA, st.Salaries.For(core.PersonA)),
		BalanceB:     PersonBalance(entries, core.PersonB, st.Salaries.For(core.PersonB)),
		Goals:        GoalProgress(entries),
		Breakdown:    CategoryBreakdown(month),
	}
}

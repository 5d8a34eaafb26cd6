package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofrinho/internal/core"
)

// on takes a 0-11 month index, like the dashboard does.
func on(year, month int) time.Time {
	return time.Date(year, time.Month(month+1), 15, 12, 0, 0, 0, time.UTC)
}

func mk(id string, amount float64, kind core.Kind, cat core.Category, owner core.Owner, at time.Time) core.Entry {
	return core.Entry{ID: id, Description: id, Amount: amount, Kind: kind, Category: cat, Owner: owner, OccurredAt: at}
}

func TestFilterMonth_IgnoresYearAndKeepsOrder(t *testing.T) {
	entries := []core.Entry{
		mk("c", 1, core.Expense, core.Food, core.PersonA, on(2025, 3)),
		mk("b", 1, core.Expense, core.Food, core.PersonA, on(2025, 4)),
		mk("a", 1, core.Expense, core.Food, core.PersonA, on(2024, 3)),
	}

	got := FilterMonth(entries, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	assert.Len(t, FilterMonth(entries, 15), 2, "15 wraps to 3")
	assert.Empty(t, FilterMonth(nil, 0))
}

func TestMonthlyTotals_SalariesOnly(t *testing.T) {
	totals := MonthlyTotals(nil, Salaries{A: "3000", B: "2500"})
	assert.Equal(t, 5500.0, totals.Income)
	assert.Equal(t, 0.0, totals.Expense)
	assert.Equal(t, 5500.0, totals.Balance())
}

func TestMonthlyTotals_BalanceIsIncomeMinusExpense(t *testing.T) {
	month := []core.Entry{
		mk("1", 1200.10, core.Income, core.Salary, core.PersonA, on(2025, 0)),
		mk("2", 300.25, core.Expense, core.Housing, core.PersonB, on(2025, 0)),
		mk("3", 99.99, core.Expense, core.Food, core.PersonA, on(2025, 0)),
	}
	totals := MonthlyTotals(month, Salaries{A: "abc", B: ""})

	assert.InDelta(t, 1200.10, totals.Income, 1e-9)
	assert.InDelta(t, 400.24, totals.Expense, 1e-9)
	assert.Equal(t, totals.Income-totals.Expense, totals.Balance())
}

func TestMonthlyTotals_NonIncomeKindsCountAsExpense(t *testing.T) {
	month := []core.Entry{mk("1", 50, core.SavingsGoal, core.Cruise, core.PersonA, on(2025, 0))}
	assert.Equal(t, 50.0, MonthlyTotals(month, Salaries{}).Expense)
}

func TestPersonBalance_SpansAllMonths(t *testing.T) {
	entries := []core.Entry{
		mk("1", 100, core.Income, core.Salary, core.PersonA, on(2025, 1)),
		mk("2", 30, core.Expense, core.Food, core.PersonA, on(2025, 6)),
		mk("3", 500, core.Income, core.Salary, core.PersonB, on(2025, 1)),
		mk("4", 999, core.Expense, core.Food, core.Both, on(2025, 1)),
	}

	assert.Equal(t, 1070.0, PersonBalance(entries, core.PersonA, 1000))
	assert.Equal(t, 500.0, PersonBalance(entries, core.PersonB, 0))
	assert.Equal(t, 0.0, PersonBalance(nil, core.PersonA, 0))
}

func TestGoalProgress_CategoryDrivesGoal(t *testing.T) {
	entries := []core.Entry{
		mk("1", 500, core.Expense, core.Cruise, core.PersonA, on(2025, 2)),
		mk("2", 1000, core.Income, core.Cruise, core.PersonB, on(2025, 9)),
		mk("3", 700, core.Expense, core.Car, core.PersonB, on(2024, 9)),
		mk("4", 40, core.Expense, core.Food, core.PersonB, on(2025, 9)),
	}

	g := GoalProgress(entries)
	assert.Equal(t, 1500.0, g.Cruise.Sum)
	assert.Equal(t, core.CruiseTarget, g.Cruise.Target)
	assert.Equal(t, 700.0, g.Car.Sum)
	assert.InDelta(t, 18.75, g.Cruise.Percent(), 1e-9)
}

func TestGoal_PercentClampsButSumDoesNot(t *testing.T) {
	g := Goal{Sum: 12000, Target: 8000}
	assert.Equal(t, 100.0, g.Percent())
	assert.Equal(t, 12000.0, g.Sum)

	assert.Equal(t, 0.0, Goal{Sum: -10, Target: 8000}.Percent())
	assert.Equal(t, 0.0, Goal{Sum: 10, Target: 0}.Percent())
}

func TestCategoryBreakdown(t *testing.T) {
	entries := []core.Entry{
		mk("1", 200, core.Expense, core.Food, core.PersonA, on(2025, 3)),
	}

	assert.Equal(t, []CategoryAmount{{Category: core.Food, Amount: 200}}, CategoryBreakdown(FilterMonth(entries, 3)))
	assert.Empty(t, CategoryBreakdown(FilterMonth(entries, 4)))
}

func TestCategoryBreakdown_FirstOccurrenceOrder(t *testing.T) {
	month := []core.Entry{
		mk("1", 5, core.Expense, core.Transport, core.PersonA, on(2025, 0)),
		mk("2", 900, core.Expense, core.Housing, core.PersonA, on(2025, 0)),
		mk("3", 1000, core.Income, core.Salary, core.PersonA, on(2025, 0)),
		mk("4", 10, core.Expense, core.Transport, core.PersonB, on(2025, 0)),
		mk("5", 1, core.Expense, core.Entertainment, core.PersonB, on(2025, 0)),
	}

	got := CategoryBreakdown(month)
	assert.Equal(t, []CategoryAmount{
		{Category: core.Transport, Amount: 15},
		{Category: core.Housing, Amount: 900},
		{Category: core.Entertainment, Amount: 1},
	}, got)
}

func TestCompute(t *testing.T) {
	entries := []core.Entry{
		mk("new", 200, core.Expense, core.Food, core.PersonA, on(2025, 3)),
		mk("old", 1000, core.Income, core.Cruise, core.PersonB, on(2025, 2)),
	}

	snap := Compute(entries, State{Month: 3, Salaries: Salaries{A: "3000", B: "2500"}})

	assert.Equal(t, 3, snap.Month)
	assert.Equal(t, "Abril", snap.MonthName)
	require.Len(t, snap.MonthEntries, 1)
	assert.Equal(t, 5500.0, snap.Totals.Income)
	assert.Equal(t, 200.0, snap.Totals.Expense)
	assert.Equal(t, 2800.0, snap.BalanceA)
	assert.Equal(t, 3500.0, snap.BalanceB)
	assert.Equal(t, 1000.0, snap.Goals.Cruise.Sum)
	assert.Equal(t, []CategoryAmount{{Category: core.Food, Amount: 200}}, snap.Breakdown)

	empty := Compute(nil, State{Month: -1})
	assert.Equal(t, 11, empty.Month)
	assert.Equal(t, Totals{}, empty.Totals)
	assert.Empty(t, empty.Breakdown)
}

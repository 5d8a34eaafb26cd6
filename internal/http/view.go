package http

import (
	"fmt"
	"time"

	"cofrinho/internal/aggregate"
	"cofrinho/internal/core"
)

type optionView struct {
	Value string
	Label string
}

type billView struct {
	Name   string
	Amount string
	Theme  core.BillTheme
}

type goalView struct {
	Label   string
	Color   string
	Sum     string
	Target  string
	Percent string
	Width   string
}

type breakdownView struct {
	Label  string
	Color  string
	Amount string
	Width  string
}

type entryView struct {
	ID            string
	Description   string
	Amount        string
	Income        bool
	KindLabel     string
	CategoryLabel string
	Color         string
	OwnerName     string
	Date          string
}

type adviceView struct {
	MonthName string
	Text      string
}

// formView holds the entry form values, kept when a submission is rejected.
type formView struct {
	Description string
	Amount      string
	Kind        string
	Category    string
	Owner       string
	Error       string
}

type dashboardView struct {
	Household core.Household
	Month     int
	MonthName string
	PrevURL   string
	NextURL   string
	SalaryA   string
	SalaryB   string

	Income          string
	Expense         string
	Balance         string
	BalanceNegative bool

	Bills      []billView
	Goals      []goalView
	Breakdown  []breakdownView
	Entries    []entryView
	Categories []optionView
	Owners     []optionView
	Form       formView
	Advice     adviceView
}

func defaultForm() formView {
	return formView{
		Kind:     string(core.Expense),
		Category: string(core.Food),
		Owner:    string(core.PersonB),
	}
}

func formFromInput(in core.EntryInput, err error) formView {
	return formView{
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        string(in.Kind),
		Category:    string(in.Category),
		Owner:       string(in.Owner),
		Error:       entryErrorMessage(err),
	}
}

func buildDashboard(snap aggregate.Snapshot, st aggregate.State, h core.Household, form formView) dashboardView {
	prev, next := st, st
	prev.Month = core.PrevMonth(snap.Month)
	next.Month = core.NextMonth(snap.Month)

	v := dashboardView{
		Household:       h,
		Month:           snap.Month,
		MonthName:       snap.MonthName,
		PrevURL:         dashboardURL(prev),
		NextURL:         dashboardURL(next),
		SalaryA:         st.Salaries.A,
		SalaryB:         st.Salaries.B,
		Income:          core.FormatBRL(snap.Totals.Income),
		Expense:         core.FormatBRL(snap.Totals.Expense),
		Balance:         core.FormatBRL(snap.Totals.Balance()),
		BalanceNegative: snap.Totals.Balance() < 0,
		Bills: []billView{
			{Name: h.PersonA, Amount: core.FormatBRL(snap.BalanceA), Theme: core.ThemeForBalance(snap.BalanceA)},
			{Name: h.PersonB, Amount: core.FormatBRL(snap.BalanceB), Theme: core.ThemeForBalance(snap.BalanceB)},
		},
		Goals: []goalView{goalFor(snap.Goals.Cruise), goalFor(snap.Goals.Car)},
		Owners: []optionView{
			{Value: string(core.PersonA), Label: h.PersonA},
			{Value: string(core.PersonB), Label: h.PersonB},
		},
		Form:   form,
		Advice: adviceView{MonthName: snap.MonthName},
	}

	for _, c := range core.Categories() {
		v.Categories = append(v.Categories, optionView{Value: string(c), Label: c.Label()})
	}

	for _, b := range snap.Breakdown {
		style := b.Category.Style()
		share := 0.0
		if snap.Totals.Expense > 0 {
			share = min(100, 100*b.Amount/snap.Totals.Expense)
		}
		v.Breakdown = append(v.Breakdown, breakdownView{
			Label:  style.Label,
			Color:  style.Color,
			Amount: core.FormatBRL(b.Amount),
			Width:  fmt.Sprintf("%.1f", share),
		})
	}

	for _, e := range snap.MonthEntries {
		style := e.Category.Style()
		v.Entries = append(v.Entries, entryView{
			ID:            e.ID,
			Description:   e.Description,
			Amount:        core.FormatBRL(e.Amount),
			Income:        e.Kind == core.Income,
			KindLabel:     e.Kind.Label(),
			CategoryLabel: style.Label,
			Color:         style.Color,
			OwnerName:     h.Name(e.Owner),
			Date:          e.OccurredAt.Format("02/01"),
		})
	}
	return v
}

func goalFor(g aggregate.Goal) goalView {
	style := g.Category.Style()
	return goalView{
		Label:   style.Label,
		Color:   style.Color,
		Sum:     core.FormatBRL(g.Sum),
		Target:  core.FormatBRL(g.Target),
		Percent: fmt.Sprintf("%.0f%%", g.Percent()),
		Width:   fmt.Sprintf("%.1f", g.Percent()),
	}
}

// summaryJSON is the /api/summary payload.
type summaryJSON struct {
	Month     int            `json:"month"`
	MonthName string         `json:"month_name"`
	Income    float64        `json:"income"`
	Expense   float64        `json:"expense"`
	Balance   float64        `json:"balance"`
	BalanceA  float64        `json:"balance_person_a"`
	BalanceB  float64        `json:"balance_person_b"`
	Goals     []goalJSON     `json:"goals"`
	Breakdown []categoryJSON `json:"breakdown"`
	Entries   []entryJSON    `json:"entries"`
}

type goalJSON struct {
	Category string  `json:"category"`
	Sum      float64 `json:"sum"`
	Target   float64 `json:"target"`
	Percent  float64 `json:"percent"`
}

type categoryJSON struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
}

type entryJSON struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Kind        string  `json:"kind"`
	Category    string  `json:"category"`
	Owner       string  `json:"owner"`
	OccurredAt  string  `json:"occurred_at"`
}

func newEntryJSON(e core.Entry) entryJSON {
	return entryJSON{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Kind:        string(e.Kind),
		Category:    string(e.Category),
		Owner:       string(e.Owner),
		OccurredAt:  e.OccurredAt.Format(time.RFC3339),
	}
}

func buildSummary(snap aggregate.Snapshot) summaryJSON {
	out := summaryJSON{
		Month:     snap.Month,
		MonthName: snap.MonthName,
		Income:    snap.Totals.Income,
		Expense:   snap.Totals.Expense,
		Balance:   snap.Totals.Balance(),
		BalanceA:  snap.BalanceA,
		BalanceB:  snap.BalanceB,
		Breakdown: make([]categoryJSON, 0, len(snap.Breakdown)),
		Entries:   make([]entryJSON, 0, len(snap.MonthEntries)),
	}
	for _, g := range []aggregate.Goal{snap.Goals.Cruise, snap.Goals.Car} {
		out.Goals = append(out.Goals, goalJSON{
			Category: string(g.Category),
			Sum:      g.Sum,
			Target:   g.Target,
			Percent:  g.Percent(),
		})
	}
	for _, b := range snap.Breakdown {
		out.Breakdown = append(out.Breakdown, categoryJSON{
			Category: string(b.Category),
			Label:    b.Category.Label(),
			Amount:   b.Amount,
		})
	}
	for _, e := range snap.MonthEntries {
		out.Entries = append(out.Entries, newEntryJSON(e))
	}
	return out
}

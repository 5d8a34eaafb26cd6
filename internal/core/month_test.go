package core

import (
	"testing"
	"time"
)

func TestMonthStepping(t *testing.T) {
	if NextMonth(11) != 0 {
		t.Fatalf("11 forward should wrap to 0")
	}
	if PrevMonth(0) != 11 {
		t.Fatalf("0 backward should wrap to 11")
	}
	if NextMonth(4) != 5 || PrevMonth(4) != 3 {
		t.Fatalf("unexpected stepping around 4")
	}
}

func TestWrapMonth(t *testing.T) {
	cases := map[int]int{0: 0, 11: 11, 12: 0, 13: 1, -1: 11, -13: 11, 25: 1}
	for in, want := range cases {
		if got := WrapMonth(in); got != want {
			t.Fatalf("WrapMonth(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(0) != "Janeiro" || MonthName(11) != "Dezembro" || MonthName(14) != "Março" {
		t.Fatalf("unexpected month names")
	}
}

func TestDateInMonthClampsDay(t *testing.T) {
	now := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)
	got := DateInMonth(now, 1)
	if got.Month() != time.February || got.Day() != 28 {
		t.Fatalf("expected Feb 28, got %v", got)
	}
	got = DateInMonth(now, 6)
	if got.Month() != time.July || got.Day() != 31 || got.Hour() != 9 {
		t.Fatalf("expected Jul 31 09:00, got %v", got)
	}
}

func TestThemeForBalance(t *testing.T) {
	cases := []struct {
		balance float64
		animal  string
	}{
		{-5, "🐢"},
		{0, "🐢"},
		{50, "🦜"},
		{100, "🐒"},
		{1999.99, "🐆"},
		{2000, "🐟"},
	}
	for _, tc := range cases {
		if got := ThemeForBalance(tc.balance).Animal; got != tc.animal {
			t.Fatalf("balance %v: got %s, want %s", tc.balance, got, tc.animal)
		}
	}
}

func TestCategoryStyle(t *testing.T) {
	if Cruise.Label() != "Cruzeiro 🚢" {
		t.Fatalf("unexpected cruise label %q", Cruise.Label())
	}
	if len(Categories()) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(Categories()))
	}
	unknown := Category("boat").Style()
	if unknown.Label != "boat" || unknown.Color != Other.Style().Color {
		t.Fatalf("unexpected fallback style %+v", unknown)
	}
}

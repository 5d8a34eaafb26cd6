package core

import "time"

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// WrapMonth folds any integer onto a month index 0-11.
func WrapMonth(m int) int {
	m %= 12
	if m < 0 {
		m += 12
	}
	return m
}

// NextMonth steps forward, 11 wraps to 0.
func NextMonth(m int) int {
	return WrapMonth(m + 1)
}

// PrevMonth steps backward, 0 wraps to 11.
func PrevMonth(m int) int {
	return WrapMonth(m - 1)
}

// MonthName returns the Portuguese name of a month index.
func MonthName(m int) string {
	return monthNames[WrapMonth(m)]
}

// MonthIndex returns t's calendar month as an index 0-11.
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// DateInMonth moves now into month index m of the same year, keeping the
// time of day. The day is clamped to the length of the target month.
func DateInMonth(now time.Time, m int) time.Time {
	month := time.Month(WrapMonth(m) + 1)
	day := now.Day()
	if last := daysIn(now.Year(), month, now.Location()); day > last {
		day = last
	}
	return time.Date(now.Year(), month, day, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

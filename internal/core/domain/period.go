package domain

import "time"

// DateWindow is a half-open interval [Start, End) used to restrict deposit
// aggregation to a billing period.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayWindow returns the calendar day containing t, in t's location.
func DayWindow(t time.Time) DateWindow {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return DateWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// MonthWindow returns the calendar month containing t, in t's location.
func MonthWindow(t time.Time) DateWindow {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return DateWindow{Start: start, End: start.AddDate(0, 1, 0)}
}

// YearWindow returns the calendar year containing t, in t's location.
func YearWindow(t time.Time) DateWindow {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return DateWindow{Start: start, End: start.AddDate(1, 0, 0)}
}

// DuplicateWindow returns the billing window used for duplicate-deposit
// detection for the given payment mode: same day for Daily, same month for
// Monthly and same year for Yearly accounts.
func DuplicateWindow(mode PaymentMode, t time.Time) DateWindow {
	switch mode {
	case ModeDaily:
		return DayWindow(t)
	case ModeYearly:
		return YearWindow(t)
	default:
		return MonthWindow(t)
	}
}

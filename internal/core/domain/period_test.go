package domain_test

import (
	"testing"
	"time"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDateWindows(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)

	t.Run("day window", func(t *testing.T) {
		w := domain.DayWindow(ts)
		assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), w.End)
		assert.True(t, w.Contains(ts))
		assert.False(t, w.Contains(w.End))
		assert.True(t, w.Contains(w.Start))
	})

	t.Run("month window", func(t *testing.T) {
		w := domain.MonthWindow(ts)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("month window rolls over year end", func(t *testing.T) {
		w := domain.MonthWindow(time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC))
		assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("year window", func(t *testing.T) {
		w := domain.YearWindow(ts)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
	})
}

func TestDuplicateWindow(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		mode domain.PaymentMode
		want domain.DateWindow
	}{
		{"daily uses the calendar day", domain.ModeDaily, domain.DayWindow(ts)},
		{"monthly uses the calendar month", domain.ModeMonthly, domain.MonthWindow(ts)},
		{"yearly uses the calendar year", domain.ModeYearly, domain.YearWindow(ts)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DuplicateWindow(tt.mode, ts))
		})
	}
}

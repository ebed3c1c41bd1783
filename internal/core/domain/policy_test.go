package domain_test

import (
	"testing"
	"time"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestEvaluateDeposit_Daily(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	acct := domain.Account{
		PaymentMode:        domain.ModeDaily,
		Status:             domain.StatusActive,
		MonthlyTarget:      dec("3000"),
		TotalPayableAmount: dec("36000"),
		MaturityDate:       now.AddDate(1, 0, 0),
	}

	tests := []struct {
		name           string
		lifetime       string
		monthCollected string
		amount         string
		wantAllowed    bool
		wantReason     domain.RejectReason
		wantStatus     domain.AccountStatus
	}{
		{
			name:           "within monthly target stays pending",
			lifetime:       "5000",
			monthCollected: "1000",
			amount:         "100",
			wantAllowed:    true,
			wantStatus:     domain.StatusPending,
		},
		{
			name:           "exactly reaching target flips on-track",
			lifetime:       "5000",
			monthCollected: "2900",
			amount:         "100",
			wantAllowed:    true,
			wantStatus:     domain.StatusOnTrack,
		},
		{
			name:           "exceeding monthly target rejected",
			lifetime:       "5000",
			monthCollected: "2950",
			amount:         "100",
			wantAllowed:    false,
			wantReason:     domain.ReasonDailyTargetExceeded,
		},
		{
			name:           "lifetime cap checked before target",
			lifetime:       "35950",
			monthCollected: "0",
			amount:         "100",
			wantAllowed:    false,
			wantReason:     domain.ReasonTotalPayableExceeded,
		},
		{
			name:           "non positive amount rejected",
			lifetime:       "0",
			monthCollected: "0",
			amount:         "0",
			wantAllowed:    false,
			wantReason:     domain.ReasonInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.EvaluateDeposit(acct, dec(tt.lifetime), dec(tt.monthCollected), 0, dec(tt.amount), now)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if tt.wantAllowed {
				assert.Equal(t, tt.wantStatus, got.StatusAfter)
			} else {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}

func TestEvaluateDeposit_Monthly(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	acct := domain.Account{
		PaymentMode:        domain.ModeMonthly,
		Status:             domain.StatusActive,
		InstallmentAmount:  dec("500"),
		TotalPayableAmount: dec("6000"),
		MaturityDate:       now.AddDate(1, 0, 0),
	}

	tests := []struct {
		name          string
		lifetime      string
		monthDeposits int
		amount        string
		wantAllowed   bool
		wantReason    domain.RejectReason
		wantStatus    domain.AccountStatus
	}{
		{
			name:        "first installment of the month accepted",
			lifetime:    "1000",
			amount:      "500",
			wantAllowed: true,
			wantStatus:  domain.StatusPending,
		},
		{
			name:          "second deposit in same month rejected",
			lifetime:      "1500",
			monthDeposits: 1,
			amount:        "500",
			wantAllowed:   false,
			wantReason:    domain.ReasonMonthlyAlreadyPaid,
		},
		{
			name:        "wrong installment amount rejected",
			lifetime:    "1000",
			amount:      "300",
			wantAllowed: false,
			wantReason:  domain.ReasonMonthlyAmountWrong,
		},
		{
			name:        "final installment flips on-track",
			lifetime:    "5500",
			amount:      "500",
			wantAllowed: true,
			wantStatus:  domain.StatusOnTrack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.EvaluateDeposit(acct, dec(tt.lifetime), decimal.Zero, tt.monthDeposits, dec(tt.amount), now)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if tt.wantAllowed {
				assert.Equal(t, tt.wantStatus, got.StatusAfter)
			} else {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}

func TestEvaluateDeposit_Yearly(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	acct := domain.Account{
		PaymentMode:        domain.ModeYearly,
		Status:             domain.StatusActive,
		YearlyAmount:       dec("12000"),
		TotalPayableAmount: dec("12000"),
		MaturityDate:       now.AddDate(2, 0, 0),
	}

	t.Run("exact yearly amount accepted and marks fully paid", func(t *testing.T) {
		got := domain.EvaluateDeposit(acct, decimal.Zero, decimal.Zero, 0, dec("12000"), now)
		assert.True(t, got.Allowed)
		assert.True(t, got.FullyPaidAfter)
		assert.Equal(t, domain.StatusOnTrack, got.StatusAfter)
	})

	t.Run("wrong amount rejected", func(t *testing.T) {
		got := domain.EvaluateDeposit(acct, decimal.Zero, decimal.Zero, 0, dec("11000"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonYearlyAmountWrong, got.Reason)
	})

	t.Run("second yearly deposit rejected", func(t *testing.T) {
		got := domain.EvaluateDeposit(acct, dec("12000"), decimal.Zero, 0, dec("12000"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonYearlyAlreadyPaid, got.Reason)
	})

	t.Run("fully paid flag alone blocks redeposit", func(t *testing.T) {
		paid := acct
		paid.IsFullyPaid = true
		got := domain.EvaluateDeposit(paid, decimal.Zero, decimal.Zero, 0, dec("12000"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonYearlyAlreadyPaid, got.Reason)
	})

	t.Run("falls back to total payable when yearly amount unset", func(t *testing.T) {
		noYearly := acct
		noYearly.YearlyAmount = decimal.Zero
		got := domain.EvaluateDeposit(noYearly, decimal.Zero, decimal.Zero, 0, dec("12000"), now)
		assert.True(t, got.Allowed)
		assert.True(t, got.FullyPaidAfter)
	})
}

func TestEvaluateDeposit_Lifecycle(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("closed account rejects every deposit", func(t *testing.T) {
		acct := domain.Account{
			PaymentMode:  domain.ModeDaily,
			Status:       domain.StatusClosed,
			MaturityDate: now.AddDate(1, 0, 0),
		}
		got := domain.EvaluateDeposit(acct, decimal.Zero, decimal.Zero, 0, dec("100"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonAccountClosed, got.Reason)
	})

	t.Run("matured account rejects and reports the flipped status", func(t *testing.T) {
		acct := domain.Account{
			PaymentMode:  domain.ModeDaily,
			Status:       domain.StatusActive,
			MaturityDate: now.AddDate(0, 0, -1),
		}
		got := domain.EvaluateDeposit(acct, decimal.Zero, decimal.Zero, 0, dec("100"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonAccountMatured, got.Reason)
		assert.Equal(t, domain.StatusMatured, got.StatusAfter)
	})

	t.Run("maturity boundary is inclusive", func(t *testing.T) {
		acct := domain.Account{
			PaymentMode:  domain.ModeDaily,
			Status:       domain.StatusActive,
			MaturityDate: now,
		}
		got := domain.EvaluateDeposit(acct, decimal.Zero, decimal.Zero, 0, dec("100"), now)
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonAccountMatured, got.Reason)
	})
}

func TestEvaluateDepositCorrection(t *testing.T) {
	matured := domain.Account{
		PaymentMode:        domain.ModeDaily,
		Status:             domain.StatusMatured,
		MaturityDate:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		MonthlyTarget:      dec("3000"),
		TotalPayableAmount: dec("36000"),
	}

	t.Run("matured account still accepts a correction", func(t *testing.T) {
		got := domain.EvaluateDepositCorrection(matured, dec("1000"), dec("500"), 5, dec("150"))
		assert.True(t, got.Allowed)
	})

	t.Run("closed account refuses corrections", func(t *testing.T) {
		acct := matured
		acct.Status = domain.StatusClosed
		got := domain.EvaluateDepositCorrection(acct, dec("1000"), dec("500"), 5, dec("150"))
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonAccountClosed, got.Reason)
	})

	t.Run("lifetime cap still applies", func(t *testing.T) {
		got := domain.EvaluateDepositCorrection(matured, dec("35900"), dec("500"), 5, dec("200"))
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonTotalPayableExceeded, got.Reason)
	})

	t.Run("monthly amount rule still applies", func(t *testing.T) {
		acct := domain.Account{
			PaymentMode:        domain.ModeMonthly,
			Status:             domain.StatusPending,
			InstallmentAmount:  dec("1000"),
			TotalPayableAmount: dec("12000"),
		}
		got := domain.EvaluateDepositCorrection(acct, dec("2000"), decimal.Zero, 0, dec("900"))
		assert.False(t, got.Allowed)
		assert.Equal(t, domain.ReasonMonthlyAmountWrong, got.Reason)
	})
}

func TestDeriveAccountState(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		acct           domain.Account
		lifetime       string
		monthCollected string
		wantStatus     domain.AccountStatus
		wantFullyPaid  bool
	}{
		{
			name: "closed stays closed",
			acct: domain.Account{
				PaymentMode:  domain.ModeDaily,
				Status:       domain.StatusClosed,
				MaturityDate: now.AddDate(1, 0, 0),
			},
			lifetime:       "500",
			monthCollected: "500",
			wantStatus:     domain.StatusClosed,
		},
		{
			name: "past maturity always matured",
			acct: domain.Account{
				PaymentMode:  domain.ModeDaily,
				Status:       domain.StatusOnTrack,
				MaturityDate: now.AddDate(0, -1, 0),
			},
			lifetime:       "500",
			monthCollected: "500",
			wantStatus:     domain.StatusMatured,
		},
		{
			name: "no deposits keeps inactive",
			acct: domain.Account{
				PaymentMode:  domain.ModeMonthly,
				Status:       domain.StatusInactive,
				MaturityDate: now.AddDate(1, 0, 0),
			},
			lifetime:       "0",
			monthCollected: "0",
			wantStatus:     domain.StatusInactive,
		},
		{
			name: "all deposits removed falls back to active",
			acct: domain.Account{
				PaymentMode:  domain.ModeMonthly,
				Status:       domain.StatusPending,
				MaturityDate: now.AddDate(1, 0, 0),
			},
			lifetime:       "0",
			monthCollected: "0",
			wantStatus:     domain.StatusActive,
		},
		{
			name: "daily below target pending",
			acct: domain.Account{
				PaymentMode:   domain.ModeDaily,
				Status:        domain.StatusActive,
				MonthlyTarget: dec("3000"),
				MaturityDate:  now.AddDate(1, 0, 0),
			},
			lifetime:       "1000",
			monthCollected: "1000",
			wantStatus:     domain.StatusPending,
		},
		{
			name: "daily at target on-track",
			acct: domain.Account{
				PaymentMode:   domain.ModeDaily,
				Status:        domain.StatusActive,
				MonthlyTarget: dec("3000"),
				MaturityDate:  now.AddDate(1, 0, 0),
			},
			lifetime:       "3000",
			monthCollected: "3000",
			wantStatus:     domain.StatusOnTrack,
		},
		{
			name: "yearly paid in full",
			acct: domain.Account{
				PaymentMode:  domain.ModeYearly,
				Status:       domain.StatusActive,
				YearlyAmount: dec("12000"),
				MaturityDate: now.AddDate(1, 0, 0),
			},
			lifetime:       "12000",
			monthCollected: "0",
			wantStatus:     domain.StatusOnTrack,
			wantFullyPaid:  true,
		},
		{
			name: "yearly partial after correction",
			acct: domain.Account{
				PaymentMode:  domain.ModeYearly,
				Status:       domain.StatusOnTrack,
				YearlyAmount: dec("12000"),
				MaturityDate: now.AddDate(1, 0, 0),
			},
			lifetime:       "6000",
			monthCollected: "0",
			wantStatus:     domain.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, fullyPaid := domain.DeriveAccountState(tt.acct, dec(tt.lifetime), dec(tt.monthCollected), now)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantFullyPaid, fullyPaid)
		})
	}
}

func TestDeriveAccountState_Idempotent(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	acct := domain.Account{
		PaymentMode:   domain.ModeDaily,
		Status:        domain.StatusActive,
		MonthlyTarget: dec("3000"),
		MaturityDate:  now.AddDate(1, 0, 0),
	}

	status, fullyPaid := domain.DeriveAccountState(acct, dec("1500"), dec("1500"), now)
	acct.Status = status
	again, againPaid := domain.DeriveAccountState(acct, dec("1500"), dec("1500"), now)

	assert.Equal(t, status, again)
	assert.Equal(t, fullyPaid, againPaid)
}

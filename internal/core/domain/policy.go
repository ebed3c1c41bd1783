package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositDecision is the outcome of evaluating a proposed deposit against an
// account's payment-mode rules.
type DepositDecision struct {
	Allowed        bool
	Reason         RejectReason // set when !Allowed
	StatusAfter    AccountStatus
	FullyPaidAfter bool
}

func reject(reason RejectReason, status AccountStatus) DepositDecision {
	return DepositDecision{Allowed: false, Reason: reason, StatusAfter: status}
}

// EvaluateDeposit decides whether a proposed deposit is allowed and what the
// account state becomes on acceptance. It is pure: all aggregates (lifetime
// collected, collected this calendar month, deposit count this month) are
// supplied by the caller.
//
// Check order: maturity, then the cross-cutting lifetime cap, then the
// mode-specific rules.
func EvaluateDeposit(acct Account, lifetime, monthCollected decimal.Decimal, monthDeposits int, amount decimal.Decimal, now time.Time) DepositDecision {
	if !amount.IsPositive() {
		return reject(ReasonInvalidAmount, acct.Status)
	}
	if acct.Status == StatusClosed {
		return reject(ReasonAccountClosed, StatusClosed)
	}
	if acct.IsMatured(now) {
		// The caller persists this status flip even though the deposit is rejected.
		return reject(ReasonAccountMatured, StatusMatured)
	}
	return evaluatePostingRules(acct, lifetime, monthCollected, monthDeposits, amount)
}

// EvaluateDepositCorrection re-runs the posting rules for an admin edit of an
// existing deposit, with the original amount already excluded from the
// supplied aggregates. Maturity is not enforced: a correction may legitimately
// target an account that has matured since the deposit was taken.
func EvaluateDepositCorrection(acct Account, lifetime, monthCollected decimal.Decimal, monthDeposits int, amount decimal.Decimal) DepositDecision {
	if !amount.IsPositive() {
		return reject(ReasonInvalidAmount, acct.Status)
	}
	if acct.Status == StatusClosed {
		return reject(ReasonAccountClosed, StatusClosed)
	}
	return evaluatePostingRules(acct, lifetime, monthCollected, monthDeposits, amount)
}

// evaluatePostingRules applies the lifetime cap and the mode-specific rules.
func evaluatePostingRules(acct Account, lifetime, monthCollected decimal.Decimal, monthDeposits int, amount decimal.Decimal) DepositDecision {
	if acct.TotalPayableAmount.IsPositive() && lifetime.Add(amount).GreaterThan(acct.TotalPayableAmount) {
		return reject(ReasonTotalPayableExceeded, acct.Status)
	}

	switch acct.PaymentMode {
	case ModeYearly:
		if acct.IsFullyPaid || lifetime.IsPositive() {
			return reject(ReasonYearlyAlreadyPaid, acct.Status)
		}
		if !amount.Equal(acct.RequiredYearlyAmount()) {
			return reject(ReasonYearlyAmountWrong, acct.Status)
		}
		return DepositDecision{Allowed: true, StatusAfter: StatusOnTrack, FullyPaidAfter: true}

	case ModeMonthly:
		if monthDeposits > 0 {
			return reject(ReasonMonthlyAlreadyPaid, acct.Status)
		}
		if acct.InstallmentAmount.IsPositive() && !amount.Equal(acct.InstallmentAmount) {
			return reject(ReasonMonthlyAmountWrong, acct.Status)
		}
		status := StatusPending
		if acct.TotalPayableAmount.IsPositive() && lifetime.Add(amount).GreaterThanOrEqual(acct.TotalPayableAmount) {
			status = StatusOnTrack
		}
		return DepositDecision{Allowed: true, StatusAfter: status}

	case ModeDaily:
		if acct.MonthlyTarget.IsPositive() && monthCollected.Add(amount).GreaterThan(acct.MonthlyTarget) {
			return reject(ReasonDailyTargetExceeded, acct.Status)
		}
		status := StatusPending
		if acct.MonthlyTarget.IsPositive() && monthCollected.Add(amount).GreaterThanOrEqual(acct.MonthlyTarget) {
			status = StatusOnTrack
		}
		return DepositDecision{Allowed: true, StatusAfter: status}

	default:
		return reject(ReasonInvalidInput, acct.Status)
	}
}

// DeriveAccountState recomputes status and the fully-paid flag from scratch.
// Status is always a deterministic function of (payment mode, collected
// totals, maturity date, now); it is never incrementally patched, so
// re-deriving after any create/update/delete cannot drift. The only history
// consulted is the Inactive/Closed marker on the account itself: Closed is
// terminal and an account stays Inactive until its first positive deposit.
func DeriveAccountState(acct Account, lifetime, monthCollected decimal.Decimal, now time.Time) (AccountStatus, bool) {
	fullyPaid := false
	if acct.PaymentMode == ModeYearly {
		required := acct.RequiredYearlyAmount()
		fullyPaid = required.IsPositive() && lifetime.GreaterThanOrEqual(required)
	}

	if acct.Status == StatusClosed {
		return StatusClosed, fullyPaid
	}
	if acct.IsMatured(now) {
		return StatusMatured, fullyPaid
	}
	if !lifetime.IsPositive() {
		if acct.Status == StatusInactive {
			return StatusInactive, false
		}
		return StatusActive, false
	}

	switch acct.PaymentMode {
	case ModeYearly:
		if fullyPaid {
			return StatusOnTrack, true
		}
		return StatusPending, false
	case ModeMonthly:
		if acct.TotalPayableAmount.IsPositive() && lifetime.GreaterThanOrEqual(acct.TotalPayableAmount) {
			return StatusOnTrack, false
		}
		return StatusPending, false
	case ModeDaily:
		if acct.MonthlyTarget.IsPositive() && monthCollected.GreaterThanOrEqual(acct.MonthlyTarget) {
			return StatusOnTrack, false
		}
		return StatusPending, false
	default:
		return acct.Status, fullyPaid
	}
}

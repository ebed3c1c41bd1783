package domain

import "time"

// AuditAction is the machine-readable code of an attempted action.
type AuditAction string

const (
	ActionDepositCreate     AuditAction = "DEPOSIT_CREATE"
	ActionDepositUpdate     AuditAction = "DEPOSIT_UPDATE"
	ActionDepositDelete     AuditAction = "DEPOSIT_DELETE"
	ActionDepositBulkCreate AuditAction = "DEPOSIT_BULK_CREATE"
	ActionAccountCreate     AuditAction = "ACCOUNT_CREATE"
	ActionAccountUpdate     AuditAction = "ACCOUNT_UPDATE"
	ActionAccountClose      AuditAction = "ACCOUNT_CLOSE"
	ActionAccountDelete     AuditAction = "ACCOUNT_DELETE"
	ActionMaturitySweep     AuditAction = "MATURITY_SWEEP"
	ActionUserCreate        AuditAction = "USER_CREATE"
	ActionUserUpdate        AuditAction = "USER_UPDATE"
	ActionUserDelete        AuditAction = "USER_DELETE"
	ActionAuditClear        AuditAction = "AUDIT_CLEAR"
)

// AuditStatus is the outcome recorded for an attempted action.
type AuditStatus string

const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditFailure AuditStatus = "FAILURE"
)

// RejectReason is the machine-readable cause of a rejected mutation. It is
// persisted in the audit detail payload; callers only ever see a generic error.
type RejectReason string

const (
	ReasonInvalidAmount        RejectReason = "INVALID_AMOUNT"
	ReasonInvalidInput         RejectReason = "INVALID_INPUT"
	ReasonRoleNotPermitted     RejectReason = "ROLE_NOT_PERMITTED"
	ReasonScopeViolation       RejectReason = "SCOPE_VIOLATION"
	ReasonAccountNotFound      RejectReason = "ACCOUNT_NOT_FOUND"
	ReasonClientNotFound       RejectReason = "CLIENT_NOT_FOUND"
	ReasonUserAccountMismatch  RejectReason = "USER_ACCOUNT_MISMATCH"
	ReasonCollectorMismatch    RejectReason = "COLLECTOR_MISMATCH"
	ReasonAccountMatured       RejectReason = "ACCOUNT_MATURED"
	ReasonAccountClosed        RejectReason = "ACCOUNT_CLOSED"
	ReasonTotalPayableExceeded RejectReason = "TOTAL_PAYABLE_EXCEEDED"
	ReasonMonthlyAlreadyPaid   RejectReason = "MONTHLY_ALREADY_PAID"
	ReasonMonthlyAmountWrong   RejectReason = "MONTHLY_AMOUNT_MISMATCH"
	ReasonDailyTargetExceeded  RejectReason = "DAILY_TARGET_EXCEEDED"
	ReasonYearlyAlreadyPaid    RejectReason = "YEARLY_ALREADY_PAID"
	ReasonYearlyAmountWrong    RejectReason = "YEARLY_AMOUNT_MISMATCH"
	ReasonDuplicateDeposit     RejectReason = "DUPLICATE_DEPOSIT"
	ReasonSoleYearlyDeposit    RejectReason = "SOLE_YEARLY_DEPOSIT"
)

// AuditLog is an immutable record of an attempted state change, success or
// failure. Entries are append-only and bulk-clearable only by Admins.
type AuditLog struct {
	AuditID    string         `json:"auditID"`
	CompanyID  string         `json:"companyID"`
	Action     AuditAction    `json:"action"`
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityID,omitempty"`
	Status     AuditStatus    `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	ActorID    string         `json:"actorID"`
	CreatedAt  time.Time      `json:"createdAt"`
}

package domain

// SchemeType is the product category of an account. It drives labeling and
// account-number prefixes only, never settlement rules.
type SchemeType string

const (
	SchemeRD  SchemeType = "RD"
	SchemeNSC SchemeType = "NSC"
	SchemeKVP SchemeType = "KVP"
	SchemePPF SchemeType = "PPF"
)

// PaymentMode is the collection cadence of an account. All posting and cap
// rules key off this dimension.
type PaymentMode string

const (
	ModeDaily   PaymentMode = "DAILY"
	ModeMonthly PaymentMode = "MONTHLY"
	ModeYearly  PaymentMode = "YEARLY"
)

// NumberPrefix returns the account-number prefix used for sequential numbering
// within a payment mode.
func (m PaymentMode) NumberPrefix() string {
	switch m {
	case ModeDaily:
		return "D"
	case ModeMonthly:
		return "M"
	case ModeYearly:
		return "Y"
	default:
		return "X"
	}
}

// Valid reports whether m is one of the three supported modes.
func (m PaymentMode) Valid() bool {
	return m == ModeDaily || m == ModeMonthly || m == ModeYearly
}

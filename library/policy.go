package library

// Policy holds every numeric rule that circulation applies to one member
// category. All values are overridable through the TOML config file; the
// compiled-in defaults are the current rule book.
type Policy struct {
	BorrowLimit     int
	DailyFineRate   float64
	GracePeriodDays int
	RenewalLimit    int
	MaxFine         float64
	LoanDays        int

	// Escalation adds a surcharge per day once a return is later than
	// EscalationAfterDays. Zero disables it.
	EscalationAfterDays int
	EscalationRate      float64

	// Renewal eligibility differs per category: some require a clean fine
	// balance, others tolerate fines below a fraction of MaxFine.
	RenewRequiresZeroFine bool
	RenewFineThreshold    float64 // fraction of MaxFine, used when zero fine is not required
}

// PolicyTable maps member categories to their policies.
type PolicyTable map[MemberCategory]Policy

// DefaultPolicies returns the standard rule set:
//
//	category  borrow  fine/day  grace  renewals  max fine  escalation  renew needs
//	Student   3       2.0       3      2         100.0     none        zero fine
//	Faculty   5       1.0       5      3         50.0      +0.5 >30d   fine < max/2
//	Regular   2       3.0       2      1         200.0     +0.5 >30d   fine < max/2
//
// with a 5-day loan period across the board.
func DefaultPolicies() PolicyTable {
	return PolicyTable{
		CategoryStudent: {
			BorrowLimit:           3,
			DailyFineRate:         2.0,
			GracePeriodDays:       3,
			RenewalLimit:          2,
			MaxFine:               100.0,
			LoanDays:              5,
			RenewRequiresZeroFine: true,
		},
		CategoryFaculty: {
			BorrowLimit:         5,
			DailyFineRate:       1.0,
			GracePeriodDays:     5,
			RenewalLimit:        3,
			MaxFine:             50.0,
			LoanDays:            5,
			EscalationAfterDays: 30,
			EscalationRate:      0.5,
			RenewFineThreshold:  0.5,
		},
		CategoryRegular: {
			BorrowLimit:         2,
			DailyFineRate:       3.0,
			GracePeriodDays:     2,
			RenewalLimit:        1,
			MaxFine:             200.0,
			LoanDays:            5,
			EscalationAfterDays: 30,
			EscalationRate:      0.5,
			RenewFineThreshold:  0.5,
		},
	}
}

// For resolves the policy for a category. Unknown categories fall back to
// the Regular policy.
func (t PolicyTable) For(c MemberCategory) Policy {
	if p, ok := t[c]; ok {
		return p
	}
	return t[CategoryRegular]
}

// Fine computes the charge for a return that is daysLate days past due.
// The grace window is free; beyond it each day costs DailyFineRate, and
// once daysLate passes EscalationAfterDays every further day adds
// EscalationRate on top.
func (p Policy) Fine(daysLate int) float64 {
	if daysLate <= p.GracePeriodDays {
		return 0
	}
	fine := float64(daysLate-p.GracePeriodDays) * p.DailyFineRate
	if p.EscalationAfterDays > 0 && daysLate > p.EscalationAfterDays {
		fine += float64(daysLate-p.EscalationAfterDays) * p.EscalationRate
	}
	return fine
}

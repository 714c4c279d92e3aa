package library

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// The policy table is configuration, not code: grace days and renewal
// thresholds have changed over the years, so every per-category number is
// overridable from a TOML file and the compiled-in defaults are just the
// current rule book.

// policyConfig mirrors one [policy.<category>] table. Pointer fields
// distinguish "absent" from zero so a file can override a single value.
type policyConfig struct {
	BorrowLimit           *int     `toml:"borrow_limit"`
	DailyFineRate         *float64 `toml:"daily_fine_rate"`
	GracePeriodDays       *int     `toml:"grace_period_days"`
	RenewalLimit          *int     `toml:"renewal_limit"`
	MaxFine               *float64 `toml:"max_fine"`
	LoanDays              *int     `toml:"loan_days"`
	EscalationAfterDays   *int     `toml:"escalation_after_days"`
	EscalationRate        *float64 `toml:"escalation_rate"`
	RenewRequiresZeroFine *bool    `toml:"renew_requires_zero_fine"`
	RenewFineThreshold    *float64 `toml:"renew_fine_threshold"`
}

type policyFile struct {
	Policy map[string]policyConfig `toml:"policy"`
}

// LoadPolicies returns the default policy table with any overrides from the
// TOML file at path applied. A missing file is not an error; an unknown
// category name in the file is.
func LoadPolicies(path string) (PolicyTable, error) {
	table := DefaultPolicies()
	if path == "" {
		return table, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return table, nil
	}

	var file policyFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse policy config %s: %w", path, err)
	}

	for name, cfg := range file.Policy {
		category, err := CategoryByName(name)
		if err != nil {
			return nil, fmt.Errorf("policy config %s: %w", path, err)
		}
		p := table[category]
		applyOverrides(&p, cfg)
		table[category] = p
	}
	return table, nil
}

func applyOverrides(p *Policy, cfg policyConfig) {
	if cfg.BorrowLimit != nil {
		p.BorrowLimit = *cfg.BorrowLimit
	}
	if cfg.DailyFineRate != nil {
		p.DailyFineRate = *cfg.DailyFineRate
	}
	if cfg.GracePeriodDays != nil {
		p.GracePeriodDays = *cfg.GracePeriodDays
	}
	if cfg.RenewalLimit != nil {
		p.RenewalLimit = *cfg.RenewalLimit
	}
	if cfg.MaxFine != nil {
		p.MaxFine = *cfg.MaxFine
	}
	if cfg.LoanDays != nil {
		p.LoanDays = *cfg.LoanDays
	}
	if cfg.EscalationAfterDays != nil {
		p.EscalationAfterDays = *cfg.EscalationAfterDays
	}
	if cfg.EscalationRate != nil {
		p.EscalationRate = *cfg.EscalationRate
	}
	if cfg.RenewRequiresZeroFine != nil {
		p.RenewRequiresZeroFine = *cfg.RenewRequiresZeroFine
	}
	if cfg.RenewFineThreshold != nil {
		p.RenewFineThreshold = *cfg.RenewFineThreshold
	}
}

// CategoryByName resolves a config key to a member category,
// case-insensitively.
func CategoryByName(name string) (MemberCategory, error) {
	switch strings.ToLower(name) {
	case "student":
		return CategoryStudent, nil
	case "faculty":
		return CategoryFaculty, nil
	case "regular":
		return CategoryRegular, nil
	}
	return "", fmt.Errorf("unknown member category %q", name)
}

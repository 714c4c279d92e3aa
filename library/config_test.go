package library

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policies.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPoliciesMissingFile(t *testing.T) {
	table, err := LoadPolicies(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if table.For(CategoryStudent).BorrowLimit != 3 {
		t.Fatal("missing file should yield the defaults")
	}
}

func TestLoadPoliciesOverrides(t *testing.T) {
	path := writeConfig(t, `
[policy.student]
grace_period_days = 0
daily_fine_rate = 2.5

[policy.faculty]
renew_fine_threshold = 0.8
`)
	table, err := LoadPolicies(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	student := table.For(CategoryStudent)
	if student.GracePeriodDays != 0 || !almostEqual(student.DailyFineRate, 2.5) {
		t.Fatalf("overrides not applied: %+v", student)
	}
	if student.BorrowLimit != 3 {
		t.Fatal("untouched fields keep their defaults")
	}
	if !almostEqual(table.For(CategoryFaculty).RenewFineThreshold, 0.8) {
		t.Fatal("faculty override not applied")
	}
	if table.For(CategoryRegular).BorrowLimit != 2 {
		t.Fatal("categories absent from the file keep their defaults")
	}
}

func TestLoadPoliciesUnknownCategory(t *testing.T) {
	path := writeConfig(t, `
[policy.visitor]
borrow_limit = 1
`)
	if _, err := LoadPolicies(path); err == nil {
		t.Fatal("unknown category name must be rejected")
	}
}

func TestLoadPoliciesBadTOML(t *testing.T) {
	path := writeConfig(t, "[policy.student\nborrow_limit = 3")
	if _, err := LoadPolicies(path); err == nil {
		t.Fatal("malformed TOML must be rejected")
	}
}

func TestCategoryByName(t *testing.T) {
	for name, want := range map[string]MemberCategory{
		"student": CategoryStudent,
		"Student": CategoryStudent,
		"FACULTY": CategoryFaculty,
		"regular": CategoryRegular,
	} {
		got, err := CategoryByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: want %s, got %s", name, want, got)
		}
	}
	if _, err := CategoryByName("visitor"); err == nil {
		t.Fatal("unknown name must error")
	}
}

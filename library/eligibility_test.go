package library

import "testing"

func activeMember(cat MemberCategory) Member {
	return Member{Category: cat, Status: StatusActive}
}

func TestCanBorrow(t *testing.T) {
	table := DefaultPolicies()

	cases := []struct {
		name   string
		member Member
		want   bool
	}{
		{"fresh student", activeMember(CategoryStudent), true},
		{"at borrow limit", Member{Category: CategoryStudent, Status: StatusActive, BorrowedBooks: 3}, false},
		{"suspended", Member{Category: CategoryStudent, Status: StatusSuspended}, false},
		{"expired", Member{Category: CategoryStudent, Status: StatusExpired}, false},
		{"fine at ceiling still allowed", Member{Category: CategoryStudent, Status: StatusActive, FineAmount: 100.0}, true},
		{"fine over ceiling", Member{Category: CategoryStudent, Status: StatusActive, FineAmount: 100.01}, false},
		{"faculty under higher limit", Member{Category: CategoryFaculty, Status: StatusActive, BorrowedBooks: 4}, true},
		{"regular at lower limit", Member{Category: CategoryRegular, Status: StatusActive, BorrowedBooks: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := table.CanBorrow(&tc.member); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCanRenew(t *testing.T) {
	table := DefaultPolicies()

	cases := []struct {
		name   string
		member Member
		want   bool
	}{
		{"clean student", activeMember(CategoryStudent), true},
		{"student with any fine", Member{Category: CategoryStudent, Status: StatusActive, FineAmount: 0.5}, false},
		{"student at renewal limit", Member{Category: CategoryStudent, Status: StatusActive, RenewalCount: 2}, false},
		{"faculty fine under half ceiling", Member{Category: CategoryFaculty, Status: StatusActive, FineAmount: 24.9}, true},
		{"faculty fine at half ceiling", Member{Category: CategoryFaculty, Status: StatusActive, FineAmount: 25.0}, false},
		{"suspended member", Member{Category: CategoryFaculty, Status: StatusSuspended}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := table.CanRenew(&tc.member); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestApplyFineSuspendsAtCeiling(t *testing.T) {
	table := DefaultPolicies()
	m := activeMember(CategoryFaculty)

	table.ApplyFine(&m, 49.99)
	if m.Status != StatusActive {
		t.Fatal("below the ceiling the member stays active")
	}
	table.ApplyFine(&m, 0.01)
	if m.Status != StatusSuspended {
		t.Fatal("reaching the ceiling suspends the member")
	}

	before := m.FineAmount
	table.ApplyFine(&m, 0)
	table.ApplyFine(&m, -5)
	if m.FineAmount != before {
		t.Fatal("non-positive amounts must not change the balance")
	}
}

func TestPayFineReactivates(t *testing.T) {
	table := DefaultPolicies()
	m := Member{Category: CategoryFaculty, Status: StatusSuspended, FineAmount: 60.0}

	if err := table.PayFine(&m, 0); err != ErrInvalidPayment {
		t.Fatalf("zero payment: want ErrInvalidPayment, got %v", err)
	}
	if err := table.PayFine(&m, 61.0); err != ErrInvalidPayment {
		t.Fatalf("overpayment: want ErrInvalidPayment, got %v", err)
	}

	if err := table.PayFine(&m, 5.0); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if m.Status != StatusSuspended {
		t.Fatal("still at or above the ceiling, still suspended")
	}

	if err := table.PayFine(&m, 10.0); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if m.Status != StatusActive || !almostEqual(m.FineAmount, 45.0) {
		t.Fatalf("want active with 45.0 outstanding, got %s %v", m.Status, m.FineAmount)
	}
}

func TestRecordCountersAreGuarded(t *testing.T) {
	table := DefaultPolicies()

	m := Member{Category: CategoryStudent, Status: StatusSuspended}
	table.RecordBorrow(&m)
	if m.BorrowedBooks != 0 {
		t.Fatal("ineligible borrow must not bump the counter")
	}

	m = activeMember(CategoryStudent)
	table.RecordReturn(&m)
	if m.BorrowedBooks != 0 {
		t.Fatal("return never drives the counter negative")
	}

	m = Member{Category: CategoryStudent, Status: StatusActive, FineAmount: 1.0}
	table.RecordRenewal(&m)
	if m.RenewalCount != 0 {
		t.Fatal("ineligible renewal must not bump the counter")
	}
}

package library

// CanBorrow reports whether the member may take out (or reserve) another
// book: under the borrow limit, active, fines within the allowed maximum,
// renewals within the limit.
func (t PolicyTable) CanBorrow(m *Member) bool {
	p := t.For(m.Category)
	return m.BorrowedBooks < p.BorrowLimit &&
		m.Status == StatusActive &&
		m.FineAmount <= p.MaxFine &&
		m.RenewalCount <= p.RenewalLimit
}

// CanRenew reports whether the member may extend a loan. The fine condition
// depends on the category: either a clean balance, or a balance below the
// configured fraction of the maximum fine.
func (t PolicyTable) CanRenew(m *Member) bool {
	p := t.For(m.Category)
	if m.Status != StatusActive || m.RenewalCount >= p.RenewalLimit {
		return false
	}
	if p.RenewRequiresZeroFine {
		return m.FineAmount == 0
	}
	return m.FineAmount < p.MaxFine*p.RenewFineThreshold
}

// ApplyFine adds amount to the member's balance and suspends the membership
// once the balance reaches the category maximum.
func (t PolicyTable) ApplyFine(m *Member, amount float64) {
	if amount <= 0 {
		return
	}
	m.FineAmount += amount
	if m.FineAmount >= t.For(m.Category).MaxFine {
		m.Status = StatusSuspended
	}
}

// PayFine subtracts a payment from the member's balance. A suspension caused
// by fines is lifted once the balance drops back below the maximum.
func (t PolicyTable) PayFine(m *Member, amount float64) error {
	if amount <= 0 || amount > m.FineAmount {
		return ErrInvalidPayment
	}
	m.FineAmount -= amount
	if m.Status == StatusSuspended && m.FineAmount < t.For(m.Category).MaxFine {
		m.Status = StatusActive
	}
	return nil
}

// RecordBorrow bumps the borrowed-book count. It is a no-op unless CanBorrow
// holds; callers are expected to have checked eligibility already.
func (t PolicyTable) RecordBorrow(m *Member) {
	if t.CanBorrow(m) {
		m.BorrowedBooks++
	}
}

// RecordReturn drops the borrowed-book count, never below zero.
func (t PolicyTable) RecordReturn(m *Member) {
	if m.BorrowedBooks > 0 {
		m.BorrowedBooks--
	}
}

// RecordRenewal bumps the renewal count. No-op unless CanRenew holds.
func (t PolicyTable) RecordRenewal(m *Member) {
	if t.CanRenew(m) {
		m.RenewalCount++
	}
}

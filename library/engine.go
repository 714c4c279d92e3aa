package library

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Library is the circulation engine. It owns the in-memory ledgers (books,
// members, issues, reservations) and is the only component allowed to mutate
// them. Every operation validates completely before touching any ledger,
// applies its mutations, and persists a whole-collection snapshot; a failed
// persist rolls the in-memory state back so memory and storage never
// diverge.
//
// The engine is single-threaded: one operation runs to completion before
// the next begins.
type Library struct {
	policies PolicyTable
	store    SnapshotStore

	books        bookRepo
	members      memberRepo
	issues       issueRepo
	reservations reservationQueue

	now func() time.Time
}

// Open loads the most recent snapshot from the store and builds the ledgers.
func Open(store SnapshotStore, policies PolicyTable) (*Library, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	l := &Library{
		policies: policies,
		store:    store,
		books:    newBookRepo(),
		members:  newMemberRepo(),
		now:      time.Now,
	}
	for _, b := range snap.Books {
		l.books.put(b)
	}
	for _, m := range snap.Members {
		l.members.put(m)
	}
	l.issues.items = append(l.issues.items, snap.Issues...)
	l.reservations.items = append(l.reservations.items, snap.Reservations...)
	if snap.NextBookID > 0 {
		l.books.nextID = snap.NextBookID
	}
	if snap.NextMemberID > 0 {
		l.members.nextID = snap.NextMemberID
	}
	return l, nil
}

// Close closes the underlying snapshot store.
func (l *Library) Close() error { return l.store.Close() }

// Policies returns the active policy table.
func (l *Library) Policies() PolicyTable { return l.policies }

// snapshot captures the complete in-memory state.
func (l *Library) snapshot() *Snapshot {
	return &Snapshot{
		Books:        l.books.all(),
		Members:      l.members.all(),
		Issues:       l.issues.all(),
		Reservations: l.reservations.all(),
		NextBookID:   l.books.nextID,
		NextMemberID: l.members.nextID,
	}
}

// restore replaces the in-memory state with a previously captured snapshot.
func (l *Library) restore(snap *Snapshot) {
	l.books = newBookRepo()
	l.members = newMemberRepo()
	l.issues = issueRepo{}
	l.reservations = reservationQueue{}
	for _, b := range snap.Books {
		l.books.put(b)
	}
	for _, m := range snap.Members {
		l.members.put(m)
	}
	l.issues.items = append(l.issues.items, snap.Issues...)
	l.reservations.items = append(l.reservations.items, snap.Reservations...)
	l.books.nextID = snap.NextBookID
	l.members.nextID = snap.NextMemberID
}

// commit persists the current state; on failure it restores prev and reports
// the persistence error so the caller sees the operation as failed.
func (l *Library) commit(prev *Snapshot) error {
	if err := l.store.Save(l.snapshot()); err != nil {
		l.restore(prev)
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

// IssueBook lends a book to a member. The head of the reservation queue has
// it fulfilled by this issue, consuming the copy held for it; a member
// queued behind the head must wait their turn. Everyone else draws from the
// unheld shelf copies, and once those run out while held copies remain the
// loan is refused in favor of the queue.
func (l *Library) IssueBook(memberID, bookID int64) (*Issue, error) {
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if !l.policies.CanBorrow(&m) {
		return nil, fmt.Errorf("%w: cannot borrow", ErrNotEligible)
	}
	b, ok := l.books.get(bookID)
	if !ok {
		return nil, ErrBookNotFound
	}
	if _, open := l.issues.openFor(memberID, bookID); open {
		return nil, ErrAlreadyIssued
	}

	wasReserved := false
	if head, exists := l.reservations.firstFor(bookID); exists {
		switch {
		case head.MemberID == memberID:
			wasReserved = true
		case l.reservations.has(memberID, bookID):
			// queued behind the head: earlier reservations have the
			// exclusive right to the next copy, and issuing here would
			// leave the member holding both a loan and a reservation
			return nil, ErrReservedByAnother
		}
	}
	if err := issueOneCopy(&b, wasReserved); err != nil {
		if b.ReservedCopies > 0 {
			return nil, ErrReservedByAnother
		}
		return nil, err
	}

	now := l.now()
	iss := Issue{
		ID:       uuid.NewString(),
		MemberID: memberID,
		BookID:   bookID,
		IssuedAt: now,
		DueAt:    now.AddDate(0, 0, l.policies.For(m.Category).LoanDays),
	}
	l.policies.RecordBorrow(&m)

	prev := l.snapshot()
	if wasReserved {
		l.reservations.remove(memberID, bookID)
	}
	l.books.put(b)
	l.members.put(m)
	l.issues.add(iss)
	if err := l.commit(prev); err != nil {
		return nil, err
	}
	return &iss, nil
}

// ReturnBook closes the open issue for the pair, charging any overdue fine
// per the member's category policy. The returned copy is immediately held
// for the next queued reservation, if one is waiting. The fine charged by
// this return is reported alongside the closed issue.
func (l *Library) ReturnBook(memberID, bookID int64) (*Issue, float64, error) {
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, 0, ErrMemberNotFound
	}
	iss, open := l.issues.openFor(memberID, bookID)
	if !open {
		return nil, 0, ErrNotCurrentlyIssued
	}
	b, ok := l.books.get(bookID)
	if !ok {
		return nil, 0, ErrBookNotFound
	}

	now := l.now()
	pol := l.policies.For(m.Category)
	fine := pol.Fine(daysBetween(iss.DueAt, now))

	iss.ReturnedAt = now
	iss.FineAmount += fine
	l.policies.ApplyFine(&m, fine)
	l.policies.RecordReturn(&m)
	returnOneCopy(&b)
	reconcileHolds(&b, l.reservations.countFor(bookID))

	prev := l.snapshot()
	l.books.put(b)
	l.members.put(m)
	l.issues.put(iss)
	if err := l.commit(prev); err != nil {
		return nil, 0, err
	}
	return &iss, fine, nil
}

// RenewBook extends the due date of an open issue by the category loan
// period. A reservation held by another member blocks the renewal; the
// member's own reservation is consumed and its held copy released, since a
// renewal does not take a new copy off the shelf.
func (l *Library) RenewBook(memberID, bookID int64) (*Issue, error) {
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if !l.policies.CanRenew(&m) {
		return nil, fmt.Errorf("%w: cannot renew", ErrNotEligible)
	}
	b, ok := l.books.get(bookID)
	if !ok {
		return nil, ErrBookNotFound
	}
	iss, open := l.issues.openFor(memberID, bookID)
	if !open {
		return nil, ErrNotCurrentlyIssued
	}

	fulfil := false
	if head, exists := l.reservations.firstFor(bookID); exists {
		if head.MemberID != memberID {
			return nil, ErrReservedByAnother
		}
		fulfil = true
	}

	iss.DueAt = iss.DueAt.AddDate(0, 0, l.policies.For(m.Category).LoanDays)
	l.policies.RecordRenewal(&m)

	prev := l.snapshot()
	if fulfil {
		l.reservations.remove(memberID, bookID)
		reconcileHolds(&b, l.reservations.countFor(bookID))
	}
	l.books.put(b)
	l.members.put(m)
	l.issues.put(iss)
	if err := l.commit(prev); err != nil {
		return nil, err
	}
	return &iss, nil
}

// ReserveBook queues a reservation for a member. When a copy is on the shelf
// it is held immediately; otherwise the entry waits, unbacked, until a
// return frees a copy. Reserving requires the same base eligibility as
// borrowing, and a member cannot reserve a book they currently hold.
func (l *Library) ReserveBook(memberID, bookID int64) (*Reservation, error) {
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if !l.policies.CanBorrow(&m) {
		return nil, fmt.Errorf("%w: cannot reserve", ErrNotEligible)
	}
	b, ok := l.books.get(bookID)
	if !ok {
		return nil, ErrBookNotFound
	}
	if _, open := l.issues.openFor(memberID, bookID); open {
		return nil, ErrAlreadyIssued
	}
	if l.reservations.has(memberID, bookID) {
		return nil, ErrDuplicateReservation
	}

	if b.HasFiniteCopies() && b.AvailableCopies > 0 {
		if err := reserveOneCopy(&b); err != nil {
			return nil, err
		}
	}

	prev := l.snapshot()
	res, err := l.reservations.reserve(memberID, bookID, l.now())
	if err != nil {
		return nil, err
	}
	l.books.put(b)
	if err := l.commit(prev); err != nil {
		return nil, err
	}
	return &res, nil
}

// CancelReservation removes a member's reservation and releases the held
// copy back to the shelf if one was backing it.
func (l *Library) CancelReservation(memberID, bookID int64) error {
	if _, ok := l.members.get(memberID); !ok {
		return ErrMemberNotFound
	}
	b, ok := l.books.get(bookID)
	if !ok {
		return ErrBookNotFound
	}
	if !l.reservations.has(memberID, bookID) {
		return ErrNoReservation
	}

	prev := l.snapshot()
	l.reservations.remove(memberID, bookID)
	reconcileHolds(&b, l.reservations.countFor(bookID))
	l.books.put(b)
	return l.commit(prev)
}

// PayFine records a payment against a member's fine balance, reactivating a
// fine-suspended membership once the balance drops below the category
// maximum.
func (l *Library) PayFine(memberID int64, amount float64) (*Member, error) {
	m, ok := l.members.get(memberID)
	if !ok {
		return nil, ErrMemberNotFound
	}
	if err := l.policies.PayFine(&m, amount); err != nil {
		return nil, err
	}

	prev := l.snapshot()
	l.members.put(m)
	if err := l.commit(prev); err != nil {
		return nil, err
	}
	return &m, nil
}

// daysBetween returns the number of complete 24-hour spans from a to b,
// never negative. Overdue days are elapsed time, not calendar dates: a book
// is not a day late until a full day has passed since the due instant.
func daysBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

package library

// Inventory ledger operations. Every book mutation that touches the copy
// counters goes through this file so the invariant
//
//	TotalCopies == AvailableCopies + ReservedCopies + open issues
//
// can only be threatened in one place. All operations are no-ops that
// succeed for digital items.

// reserveOneCopy holds an available copy for the head of the reservation
// queue: available goes down, reserved goes up.
func reserveOneCopy(b *Book) error {
	if !b.HasFiniteCopies() {
		return nil
	}
	if b.AvailableCopies <= 0 {
		return ErrNoCopyAvailable
	}
	b.AvailableCopies--
	b.ReservedCopies++
	return nil
}

// issueOneCopy hands a copy to a borrower. A fulfilled reservation consumes
// the held copy; otherwise an available copy is consumed.
func issueOneCopy(b *Book, wasReserved bool) error {
	if !b.HasFiniteCopies() {
		return nil
	}
	if wasReserved && b.ReservedCopies > 0 {
		b.ReservedCopies--
		return nil
	}
	if b.AvailableCopies <= 0 {
		return ErrNoCopyAvailable
	}
	b.AvailableCopies--
	return nil
}

// returnOneCopy puts a borrowed copy back on the shelf.
func returnOneCopy(b *Book) {
	if !b.HasFiniteCopies() {
		return
	}
	b.AvailableCopies++
}

// reconcileHolds lines the reserved counter up with the reservation queue:
// it holds available copies for queued reservations that are not yet backed
// by one, and releases held copies that no longer have a reservation.
// queued is the number of outstanding reservations for the book.
func reconcileHolds(b *Book, queued int) {
	if !b.HasFiniteCopies() {
		return
	}
	for b.ReservedCopies < queued && b.AvailableCopies > 0 {
		b.AvailableCopies--
		b.ReservedCopies++
	}
	for b.ReservedCopies > queued {
		b.ReservedCopies--
		b.AvailableCopies++
	}
}

package library

import "time"

// reservationQueue keeps all pending reservations in creation order, which
// makes the per-book view a FIFO queue: the earliest entry for a book has
// the exclusive right to borrow it next.
type reservationQueue struct {
	items []Reservation
}

func (q *reservationQueue) has(memberID, bookID int64) bool {
	for _, r := range q.items {
		if r.MemberID == memberID && r.BookID == bookID {
			return true
		}
	}
	return false
}

// reserve appends a new entry, refusing a duplicate (member, book) pair.
func (q *reservationQueue) reserve(memberID, bookID int64, at time.Time) (Reservation, error) {
	if q.has(memberID, bookID) {
		return Reservation{}, ErrDuplicateReservation
	}
	r := Reservation{MemberID: memberID, BookID: bookID, CreatedAt: at}
	q.items = append(q.items, r)
	return r, nil
}

// firstFor returns the longest-waiting reservation for a book, if any.
func (q *reservationQueue) firstFor(bookID int64) (Reservation, bool) {
	for _, r := range q.items {
		if r.BookID == bookID {
			return r, true
		}
	}
	return Reservation{}, false
}

// remove deletes the (member, book) entry if present. Idempotent.
func (q *reservationQueue) remove(memberID, bookID int64) {
	for i, r := range q.items {
		if r.MemberID == memberID && r.BookID == bookID {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// countFor returns the number of outstanding reservations for a book.
func (q *reservationQueue) countFor(bookID int64) int {
	n := 0
	for _, r := range q.items {
		if r.BookID == bookID {
			n++
		}
	}
	return n
}

// forMember returns the member's reservations in creation order.
func (q *reservationQueue) forMember(memberID int64) []Reservation {
	var out []Reservation
	for _, r := range q.items {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	return out
}

func (q *reservationQueue) all() []Reservation {
	out := make([]Reservation, len(q.items))
	copy(out, q.items)
	return out
}

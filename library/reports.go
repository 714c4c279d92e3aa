package library

import "sort"

// Read-only queries consumed by the reporting surface. None of them mutate
// the ledgers.

// OverdueIssues returns every open issue past its due date, oldest due date
// first.
func (l *Library) OverdueIssues() []Issue {
	now := l.now()
	var out []Issue
	for _, i := range l.issues.all() {
		if i.Overdue(now) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].DueAt.Before(out[b].DueAt) })
	return out
}

// MembersWithOverdue returns the distinct members holding at least one
// overdue book, in member ID order.
func (l *Library) MembersWithOverdue() []Member {
	seen := make(map[int64]bool)
	var out []Member
	for _, i := range l.OverdueIssues() {
		if seen[i.MemberID] {
			continue
		}
		seen[i.MemberID] = true
		if m, ok := l.members.get(i.MemberID); ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// TotalFinesCollected sums the fine amounts accrued across all issues.
func (l *Library) TotalFinesCollected() float64 {
	var total float64
	for _, i := range l.issues.all() {
		total += i.FineAmount
	}
	return total
}

// BookCounts pairs a book with its all-time issue count and its outstanding
// reservation count.
type BookCounts struct {
	BookID       int64
	Title        string
	IssueCount   int
	ReserveCount int
}

// PopularBooks returns the n most-issued books with their issue and
// reservation counts.
func (l *Library) PopularBooks(n int) []BookCounts {
	issued := make(map[int64]int)
	for _, i := range l.issues.all() {
		issued[i.BookID]++
	}

	var out []BookCounts
	for bookID, count := range issued {
		b, ok := l.books.get(bookID)
		if !ok {
			continue
		}
		out = append(out, BookCounts{
			BookID:       bookID,
			Title:        b.Title,
			IssueCount:   count,
			ReserveCount: l.reservations.countFor(bookID),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].IssueCount != out[b].IssueCount {
			return out[a].IssueCount > out[b].IssueCount
		}
		return out[a].BookID < out[b].BookID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RecommendedBooks suggests other books by the authors the member has
// borrowed most often, up to n titles. Books the member currently holds are
// skipped.
func (l *Library) RecommendedBooks(memberID int64, n int) ([]Book, error) {
	if _, ok := l.members.get(memberID); !ok {
		return nil, ErrMemberNotFound
	}

	byAuthor := make(map[string]int)
	for _, i := range l.issues.all() {
		if i.MemberID != memberID {
			continue
		}
		if b, ok := l.books.get(i.BookID); ok {
			byAuthor[b.Author]++
		}
	}

	type authorCount struct {
		author string
		count  int
	}
	ranked := make([]authorCount, 0, len(byAuthor))
	for a, c := range byAuthor {
		ranked = append(ranked, authorCount{a, c})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].count != ranked[b].count {
			return ranked[a].count > ranked[b].count
		}
		return ranked[a].author < ranked[b].author
	})

	var out []Book
	for _, ac := range ranked {
		for _, b := range l.books.all() {
			if b.Author != ac.author {
				continue
			}
			if _, open := l.issues.openFor(memberID, b.ID); open {
				continue
			}
			out = append(out, b)
			if len(out) == n {
				return out, nil
			}
		}
	}
	return out, nil
}

// MonthlyBorrowCounts groups all issues by calendar month ("2006-01") of
// their issue date.
func (l *Library) MonthlyBorrowCounts() map[string]int {
	out := make(map[string]int)
	for _, i := range l.issues.all() {
		out[i.IssuedAt.Format("2006-01")]++
	}
	return out
}

// Reservations returns the outstanding queue for a book, FIFO order.
func (l *Library) Reservations(bookID int64) []Reservation {
	var out []Reservation
	for _, r := range l.reservations.all() {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out
}

// MemberReservations returns a member's outstanding reservations.
func (l *Library) MemberReservations(memberID int64) []Reservation {
	return l.reservations.forMember(memberID)
}

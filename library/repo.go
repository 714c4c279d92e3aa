package library

import "sort"

// Snapshot is the whole-collection state handed to a SnapshotStore. There is
// no incremental persistence: each committed transaction writes the entire
// set of collections, and startup reads them back.
type Snapshot struct {
	Books        []Book        `json:"books"`
	Members      []Member      `json:"members"`
	Issues       []Issue       `json:"issues"`
	Reservations []Reservation `json:"reservations"`
	NextBookID   int64         `json:"next_book_id"`
	NextMemberID int64         `json:"next_member_id"`
}

// SnapshotStore persists whole-collection snapshots. Save must be atomic:
// either the complete snapshot replaces the previous one or nothing changes.
type SnapshotStore interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
	Close() error
}

// bookRepo holds the in-memory book collection keyed by ID.
type bookRepo struct {
	byID   map[int64]Book
	nextID int64
}

func newBookRepo() bookRepo {
	return bookRepo{byID: make(map[int64]Book), nextID: 1}
}

func (r *bookRepo) get(id int64) (Book, bool) {
	b, ok := r.byID[id]
	return b, ok
}

func (r *bookRepo) put(b Book) {
	r.byID[b.ID] = b
}

// add assigns the next ID and stores the book.
func (r *bookRepo) add(b Book) Book {
	b.ID = r.nextID
	r.nextID++
	r.byID[b.ID] = b
	return b
}

func (r *bookRepo) all() []Book {
	out := make([]Book, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// memberRepo holds the in-memory member collection keyed by ID.
type memberRepo struct {
	byID   map[int64]Member
	nextID int64
}

func newMemberRepo() memberRepo {
	return memberRepo{byID: make(map[int64]Member), nextID: 1}
}

func (r *memberRepo) get(id int64) (Member, bool) {
	m, ok := r.byID[id]
	return m, ok
}

func (r *memberRepo) put(m Member) {
	r.byID[m.ID] = m
}

func (r *memberRepo) add(m Member) Member {
	m.ID = r.nextID
	r.nextID++
	r.byID[m.ID] = m
	return m
}

func (r *memberRepo) all() []Member {
	out := make([]Member, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// issueRepo holds all loan records in creation order.
type issueRepo struct {
	items []Issue
}

// openFor finds the open issue for a (member, book) pair. At most one can
// exist at a time.
func (r *issueRepo) openFor(memberID, bookID int64) (Issue, bool) {
	for _, i := range r.items {
		if i.MemberID == memberID && i.BookID == bookID && i.Open() {
			return i, true
		}
	}
	return Issue{}, false
}

// openCountFor returns the number of open issues referencing a book.
func (r *issueRepo) openCountFor(bookID int64) int {
	n := 0
	for _, i := range r.items {
		if i.BookID == bookID && i.Open() {
			n++
		}
	}
	return n
}

func (r *issueRepo) add(i Issue) {
	r.items = append(r.items, i)
}

// put replaces the record with the same issue ID.
func (r *issueRepo) put(iss Issue) {
	for idx, i := range r.items {
		if i.ID == iss.ID {
			r.items[idx] = iss
			return
		}
	}
	r.items = append(r.items, iss)
}

func (r *issueRepo) all() []Issue {
	out := make([]Issue, len(r.items))
	copy(out, r.items)
	return out
}

package library

import "time"

// BookKind tags the two book variants. Physical copies carry finite copy
// counters; digital items are always available and have none.
type BookKind string

const (
	BookPhysical BookKind = "physical"
	BookDigital  BookKind = "digital"
)

// Book represents one catalog entry. Shared fields live here; the counters
// are meaningful only when Kind == BookPhysical and stay zero otherwise.
type Book struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Publisher string   `json:"publisher"`
	Year      int      `json:"year"`
	Category  string   `json:"category"`
	Kind      BookKind `json:"kind"`

	TotalCopies     int `json:"total_copies"`
	AvailableCopies int `json:"available_copies"`
	ReservedCopies  int `json:"reserved_copies"`

	// Format describes the delivery format of a digital item
	// (e.g. "EPUB", "PDF", "MP3").
	Format string `json:"format,omitempty"`
}

// HasFiniteCopies reports whether circulation must track copy counters for
// this book. Resolved once here so the engine never switches on Kind itself.
func (b *Book) HasFiniteCopies() bool { return b.Kind == BookPhysical }

// Available reports whether at least one copy can be borrowed right now.
func (b *Book) Available() bool {
	if !b.HasFiniteCopies() {
		return true
	}
	return b.AvailableCopies > 0
}

// MemberCategory selects the policy row that governs a member.
type MemberCategory string

const (
	CategoryStudent MemberCategory = "Student"
	CategoryFaculty MemberCategory = "Faculty"
	CategoryRegular MemberCategory = "Regular"
)

// MemberStatus is the lifecycle state of a membership.
type MemberStatus string

const (
	StatusActive    MemberStatus = "Active"
	StatusSuspended MemberStatus = "Suspended"
	StatusExpired   MemberStatus = "Expired"
)

// Member represents a registered library member.
type Member struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Category      MemberCategory `json:"category"`
	JoinedAt      time.Time      `json:"joined_at"`
	Status        MemberStatus   `json:"status"`
	BorrowedBooks int            `json:"borrowed_books"`
	FineAmount    float64        `json:"fine_amount"`
	RenewalCount  int            `json:"renewal_count"`
	PasswordHash  string         `json:"-"` // Don't serialize password hash
}

// Issue is one loan record. A zero ReturnedAt means the loan is still open;
// at most one open issue may exist per (member, book) pair.
type Issue struct {
	ID         string    `json:"id"`
	MemberID   int64     `json:"member_id"`
	BookID     int64     `json:"book_id"`
	IssuedAt   time.Time `json:"issued_at"`
	DueAt      time.Time `json:"due_at"`
	ReturnedAt time.Time `json:"returned_at,omitempty"`
	FineAmount float64   `json:"fine_amount"`
}

// Open reports whether the book has not been returned yet.
func (i *Issue) Open() bool { return i.ReturnedAt.IsZero() }

// Overdue reports whether the issue is open past its due date at the given time.
func (i *Issue) Overdue(now time.Time) bool { return i.Open() && i.DueAt.Before(now) }

// Reservation is one pending queue entry. The (MemberID, BookID) pair is
// unique; queue order per book is creation order.
type Reservation struct {
	MemberID  int64     `json:"member_id"`
	BookID    int64     `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

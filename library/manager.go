package library

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Catalog and member administration. These are the collaborators around the
// circulation engine: they create and look up the entities the engine
// mutates, and every write goes through the same snapshot commit.

// AddPhysicalBook registers a physical title with the given number of
// copies, all initially available.
func (l *Library) AddPhysicalBook(title, author, publisher string, year int, category string, copies int) (Book, error) {
	if strings.TrimSpace(title) == "" {
		return Book{}, fmt.Errorf("title cannot be empty")
	}
	if copies < 1 {
		return Book{}, fmt.Errorf("a physical book needs at least one copy")
	}

	prev := l.snapshot()
	b := l.books.add(Book{
		Title:           title,
		Author:          author,
		Publisher:       publisher,
		Year:            year,
		Category:        category,
		Kind:            BookPhysical,
		TotalCopies:     copies,
		AvailableCopies: copies,
	})
	if err := l.commit(prev); err != nil {
		return Book{}, err
	}
	return b, nil
}

// AddDigitalBook registers a digital title (e-book or audiobook). Digital
// items have no copy counters and are always available.
func (l *Library) AddDigitalBook(title, author, publisher string, year int, category, format string) (Book, error) {
	if strings.TrimSpace(title) == "" {
		return Book{}, fmt.Errorf("title cannot be empty")
	}

	prev := l.snapshot()
	b := l.books.add(Book{
		Title:     title,
		Author:    author,
		Publisher: publisher,
		Year:      year,
		Category:  category,
		Kind:      BookDigital,
		Format:    format,
	})
	if err := l.commit(prev); err != nil {
		return Book{}, err
	}
	return b, nil
}

// GetBook looks a book up by ID.
func (l *Library) GetBook(id int64) (Book, error) {
	b, ok := l.books.get(id)
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return b, nil
}

// Books returns the whole catalog in ID order.
func (l *Library) Books() []Book { return l.books.all() }

// SearchBooks does a case-insensitive substring match over title and author.
func (l *Library) SearchBooks(q string) []Book {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []Book
	for _, b := range l.books.all() {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

// RegisterMember creates an active member of the given category with a
// bcrypt-hashed password.
func (l *Library) RegisterMember(name, email string, category MemberCategory, password string) (Member, error) {
	if strings.TrimSpace(name) == "" {
		return Member{}, fmt.Errorf("member name cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Member{}, fmt.Errorf("hash password: %w", err)
	}

	prev := l.snapshot()
	m := l.members.add(Member{
		Name:         name,
		Email:        email,
		Category:     category,
		JoinedAt:     l.now(),
		Status:       StatusActive,
		PasswordHash: string(hash),
	})
	if err := l.commit(prev); err != nil {
		return Member{}, err
	}
	return m, nil
}

// GetMember looks a member up by ID.
func (l *Library) GetMember(id int64) (Member, error) {
	m, ok := l.members.get(id)
	if !ok {
		return Member{}, ErrMemberNotFound
	}
	return m, nil
}

// Members returns all members in ID order.
func (l *Library) Members() []Member { return l.members.all() }

// AuthenticateMember verifies a member's password.
func (l *Library) AuthenticateMember(memberID int64, password string) error {
	m, ok := l.members.get(memberID)
	if !ok {
		return ErrMemberNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// PrettyBook formats a book for list output.
func PrettyBook(b Book) string {
	avail := "yes"
	if !b.Available() {
		avail = "no"
	}
	extra := b.Format
	if b.HasFiniteCopies() {
		extra = fmt.Sprintf("%d/%d copies", b.AvailableCopies, b.TotalCopies)
	}
	return fmt.Sprintf("%-5d %-35s %-25s %-9s %-10s %s", b.ID, b.Title, b.Author, b.Kind, avail, extra)
}

// PrettyMember formats a member for list output.
func PrettyMember(m Member) string {
	return fmt.Sprintf("%-5d %-25s %-8s %-10s borrowed=%d fine=%.2f renewals=%d",
		m.ID, m.Name, m.Category, m.Status, m.BorrowedBooks, m.FineAmount, m.RenewalCount)
}

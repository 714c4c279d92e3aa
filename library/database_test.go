package library

import (
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestFreshDatabaseLoadsEmptySnapshot(t *testing.T) {
	store, _ := tempStore(t)
	snap, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Books) != 0 || len(snap.Members) != 0 || len(snap.Issues) != 0 || len(snap.Reservations) != 0 {
		t.Fatalf("fresh db should be empty, got %+v", snap)
	}
	if snap.NextBookID != 0 || snap.NextMemberID != 0 {
		t.Fatalf("fresh db has no counters, got %d/%d", snap.NextBookID, snap.NextMemberID)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, _ := tempStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	want := &Snapshot{
		Books: []Book{
			{ID: 1, Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", Year: 1965,
				Category: "SF", Kind: BookPhysical, TotalCopies: 3, AvailableCopies: 1, ReservedCopies: 1},
			{ID: 2, Title: "Emma", Author: "Jane Austen", Kind: BookDigital, Format: "EPUB"},
		},
		Members: []Member{
			{ID: 1, Name: "Alice", Email: "alice@example.com", Category: CategoryStudent,
				JoinedAt: at, Status: StatusActive, BorrowedBooks: 1, FineAmount: 4.5,
				RenewalCount: 1, PasswordHash: "$2a$10$fakehash"},
		},
		Issues: []Issue{
			{ID: "issue-1", MemberID: 1, BookID: 1, IssuedAt: at, DueAt: at.AddDate(0, 0, 5)},
			{ID: "issue-0", MemberID: 1, BookID: 2, IssuedAt: at.AddDate(0, 0, -20),
				DueAt: at.AddDate(0, 0, -15), ReturnedAt: at.AddDate(0, 0, -10), FineAmount: 4.5},
		},
		Reservations: []Reservation{
			{MemberID: 1, BookID: 1, CreatedAt: at},
		},
		NextBookID:   3,
		NextMemberID: 2,
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(got.Books) != 2 || got.Books[0].Title != "Dune" || got.Books[1].Format != "EPUB" {
		t.Fatalf("books did not round-trip: %+v", got.Books)
	}
	if got.Books[0].AvailableCopies != 1 || got.Books[0].ReservedCopies != 1 {
		t.Fatalf("copy counters did not round-trip: %+v", got.Books[0])
	}
	if len(got.Members) != 1 {
		t.Fatalf("want 1 member, got %d", len(got.Members))
	}
	m := got.Members[0]
	if m.Name != "Alice" || m.FineAmount != 4.5 || m.PasswordHash != "$2a$10$fakehash" || !m.JoinedAt.Equal(at) {
		t.Fatalf("member did not round-trip: %+v", m)
	}
	if len(got.Issues) != 2 {
		t.Fatalf("want 2 issues, got %d", len(got.Issues))
	}
	for _, i := range got.Issues {
		switch i.ID {
		case "issue-1":
			if !i.Open() {
				t.Fatal("issue-1 should still be open")
			}
		case "issue-0":
			if i.Open() || i.FineAmount != 4.5 {
				t.Fatalf("issue-0 did not round-trip: %+v", i)
			}
		default:
			t.Fatalf("unexpected issue %q", i.ID)
		}
	}
	if len(got.Reservations) != 1 || !got.Reservations[0].CreatedAt.Equal(at) {
		t.Fatalf("reservations did not round-trip: %+v", got.Reservations)
	}
	if got.NextBookID != 3 || got.NextMemberID != 2 {
		t.Fatalf("counters did not round-trip: %d/%d", got.NextBookID, got.NextMemberID)
	}
}

func TestReservationOrderSurvivesReload(t *testing.T) {
	store, _ := tempStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// same book, same timestamp, member IDs deliberately out of numeric
	// order: only the saved queue order may decide who is head
	snap := &Snapshot{
		Reservations: []Reservation{
			{MemberID: 20, BookID: 1, CreatedAt: at},
			{MemberID: 10, BookID: 1, CreatedAt: at},
			{MemberID: 5, BookID: 2, CreatedAt: at},
		},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Reservations) != 3 {
		t.Fatalf("want 3 reservations, got %d", len(got.Reservations))
	}
	if got.Reservations[0].MemberID != 20 || got.Reservations[1].MemberID != 10 {
		t.Fatalf("queue order changed across reload: %+v", got.Reservations)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store, _ := tempStore(t)
	at := time.Now()

	first := &Snapshot{
		Books:      []Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", Kind: BookPhysical, TotalCopies: 1, AvailableCopies: 1}},
		NextBookID: 2,
	}
	if err := store.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := &Snapshot{
		Books: []Book{{ID: 2, Title: "Emma", Author: "Jane Austen", Kind: BookDigital, Format: "EPUB"}},
		Members: []Member{
			{ID: 1, Name: "Alice", Category: CategoryStudent, JoinedAt: at, Status: StatusActive},
		},
		NextBookID:   3,
		NextMemberID: 2,
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Books) != 1 || got.Books[0].Title != "Emma" {
		t.Fatalf("old snapshot rows survived: %+v", got.Books)
	}
	if got.NextBookID != 3 {
		t.Fatalf("counter not replaced, got %d", got.NextBookID)
	}
}

func TestReopenDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	snap := &Snapshot{
		Books:      []Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", Kind: BookPhysical, TotalCopies: 1, AvailableCopies: 1}},
		NextBookID: 2,
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening runs the migrations again; they must be idempotent and the
	// data must still be there.
	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Books) != 1 || got.Books[0].Title != "Dune" {
		t.Fatalf("data lost on reopen: %+v", got.Books)
	}
}

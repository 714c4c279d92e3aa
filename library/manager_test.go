package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPhysicalBook(t *testing.T) {
	lib := newTestLibrary(t)

	b, err := lib.AddPhysicalBook("Dune", "Frank Herbert", "Chilton", 1965, "SF", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, BookPhysical, b.Kind)
	assert.Equal(t, 3, b.AvailableCopies)

	_, err = lib.AddPhysicalBook("", "Nobody", "", 0, "", 1)
	assert.Error(t, err)
	_, err = lib.AddPhysicalBook("No Copies", "Nobody", "", 0, "", 0)
	assert.Error(t, err)
}

func TestAddDigitalBook(t *testing.T) {
	lib := newTestLibrary(t)

	b, err := lib.AddDigitalBook("Emma", "Jane Austen", "", 1815, "Classic", "EPUB")
	require.NoError(t, err)
	assert.Equal(t, BookDigital, b.Kind)
	assert.Equal(t, "EPUB", b.Format)
	assert.True(t, b.Available())
	assert.Zero(t, b.TotalCopies)
}

func TestSearchBooks(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.AddPhysicalBook("Dune", "Frank Herbert", "", 1965, "SF", 1)
	require.NoError(t, err)
	_, err = lib.AddPhysicalBook("Dune Messiah", "Frank Herbert", "", 1969, "SF", 1)
	require.NoError(t, err)
	_, err = lib.AddDigitalBook("Emma", "Jane Austen", "", 1815, "Classic", "EPUB")
	require.NoError(t, err)

	assert.Len(t, lib.SearchBooks("dune"), 2)
	assert.Len(t, lib.SearchBooks("HERBERT"), 2)
	assert.Len(t, lib.SearchBooks("austen"), 1)
	assert.Empty(t, lib.SearchBooks("tolstoy"))
	assert.Empty(t, lib.SearchBooks("  "))
}

func TestRegisterAndAuthenticateMember(t *testing.T) {
	lib := newTestLibrary(t)

	m, err := lib.RegisterMember("Alice", "alice@example.com", CategoryStudent, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, testDay, m.JoinedAt)
	assert.NotEmpty(t, m.PasswordHash)
	assert.NotContains(t, m.PasswordHash, "s3cret")

	require.NoError(t, lib.AuthenticateMember(m.ID, "s3cret"))
	assert.ErrorIs(t, lib.AuthenticateMember(m.ID, "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, lib.AuthenticateMember(999, "s3cret"), ErrMemberNotFound)

	_, err = lib.RegisterMember("  ", "", CategoryStudent, "pw")
	assert.Error(t, err)
}

// End-to-end through the durable store: the full circulation cycle survives
// a process restart.
func TestCirculationSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	lib, err := Open(store, DefaultPolicies())
	require.NoError(t, err)

	alice, err := lib.RegisterMember("Alice", "alice@example.com", CategoryStudent, "pw")
	require.NoError(t, err)
	book, err := lib.AddPhysicalBook("Dune", "Frank Herbert", "", 1965, "SF", 1)
	require.NoError(t, err)
	_, err = lib.IssueBook(alice.ID, book.ID)
	require.NoError(t, err)
	require.NoError(t, lib.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	lib, err = Open(store, DefaultPolicies())
	require.NoError(t, err)
	defer lib.Close()

	got, err := lib.GetBook(book.ID)
	require.NoError(t, err)
	assert.Zero(t, got.AvailableCopies)

	_, fine, err := lib.ReturnBook(alice.ID, book.ID)
	require.NoError(t, err)
	assert.Zero(t, fine)
	require.NoError(t, lib.AuthenticateMember(alice.ID, "pw"))
}

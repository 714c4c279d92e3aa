package library

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the durable SnapshotStore. Each Save replaces the whole
// collection tables inside one transaction, which is exactly the
// snapshot-per-commit persistence contract: the most recent full snapshot
// wins, nothing is written incrementally.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and
// applies schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            publisher TEXT NOT NULL DEFAULT '',
            year INTEGER NOT NULL DEFAULT 0,
            category TEXT NOT NULL DEFAULT '',
            kind TEXT NOT NULL,
            total_copies INTEGER NOT NULL DEFAULT 0,
            available_copies INTEGER NOT NULL DEFAULT 0,
            reserved_copies INTEGER NOT NULL DEFAULT 0,
            format TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL,
            joined_at INTEGER NOT NULL,
            status TEXT NOT NULL,
            borrowed_books INTEGER NOT NULL DEFAULT 0,
            fine_amount REAL NOT NULL DEFAULT 0,
            renewal_count INTEGER NOT NULL DEFAULT 0,
            password_hash TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS issues (
            id TEXT PRIMARY KEY,
            member_id INTEGER NOT NULL,
            book_id INTEGER NOT NULL,
            issued_at INTEGER NOT NULL,
            due_at INTEGER NOT NULL,
            returned_at INTEGER NOT NULL DEFAULT 0,
            fine_amount REAL NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS reservations (
            position INTEGER PRIMARY KEY,
            member_id INTEGER NOT NULL,
            book_id INTEGER NOT NULL,
            created_at INTEGER NOT NULL,
            UNIQUE(member_id, book_id)
        );`,
		`CREATE TABLE IF NOT EXISTS counters (name TEXT PRIMARY KEY, value INTEGER NOT NULL);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Snapshot load / save
// ---------------------------------------------------------------------------

// Load reads the complete snapshot written by the last Save. A fresh
// database yields an empty snapshot.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	snap := &Snapshot{}

	rows, err := s.db.Query(`SELECT id,title,author,publisher,year,category,kind,
        total_copies,available_copies,reserved_copies,format FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Year, &b.Category,
			&b.Kind, &b.TotalCopies, &b.AvailableCopies, &b.ReservedCopies, &b.Format); err != nil {
			return nil, err
		}
		snap.Books = append(snap.Books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.Query(`SELECT id,name,email,category,joined_at,status,
        borrowed_books,fine_amount,renewal_count,password_hash FROM members ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m Member
		var joined int64
		if err := mrows.Scan(&m.ID, &m.Name, &m.Email, &m.Category, &joined, &m.Status,
			&m.BorrowedBooks, &m.FineAmount, &m.RenewalCount, &m.PasswordHash); err != nil {
			return nil, err
		}
		m.JoinedAt = time.UnixMilli(joined)
		snap.Members = append(snap.Members, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	irows, err := s.db.Query(`SELECT id,member_id,book_id,issued_at,due_at,returned_at,fine_amount
        FROM issues ORDER BY issued_at, id`)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var i Issue
		var issued, due, returned int64
		if err := irows.Scan(&i.ID, &i.MemberID, &i.BookID, &issued, &due, &returned, &i.FineAmount); err != nil {
			return nil, err
		}
		i.IssuedAt = time.UnixMilli(issued)
		i.DueAt = time.UnixMilli(due)
		if returned != 0 {
			i.ReturnedAt = time.UnixMilli(returned)
		}
		snap.Issues = append(snap.Issues, i)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}

	// position is the queue order at save time; created_at alone is too
	// coarse to reconstruct FIFO order reliably
	rrows, err := s.db.Query(`SELECT member_id,book_id,created_at FROM reservations ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var r Reservation
		var created int64
		if err := rrows.Scan(&r.MemberID, &r.BookID, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMilli(created)
		snap.Reservations = append(snap.Reservations, r)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	for _, counter := range []struct {
		name string
		dst  *int64
	}{
		{"next_book_id", &snap.NextBookID},
		{"next_member_id", &snap.NextMemberID},
	} {
		err := s.db.QueryRow(`SELECT value FROM counters WHERE name=?`, counter.name).Scan(counter.dst)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	return snap, nil
}

// Save atomically replaces the stored snapshot with snap.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	started := time.Now()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"books", "members", "issues", "reservations"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, b := range snap.Books {
		if _, err := tx.Exec(`INSERT INTO books(id,title,author,publisher,year,category,kind,
            total_copies,available_copies,reserved_copies,format) VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
			b.ID, b.Title, b.Author, b.Publisher, b.Year, b.Category, b.Kind,
			b.TotalCopies, b.AvailableCopies, b.ReservedCopies, b.Format); err != nil {
			return fmt.Errorf("write book %d: %w", b.ID, err)
		}
	}

	for _, m := range snap.Members {
		if _, err := tx.Exec(`INSERT INTO members(id,name,email,category,joined_at,status,
            borrowed_books,fine_amount,renewal_count,password_hash) VALUES(?,?,?,?,?,?,?,?,?,?)`,
			m.ID, m.Name, m.Email, m.Category, m.JoinedAt.UnixMilli(), m.Status,
			m.BorrowedBooks, m.FineAmount, m.RenewalCount, m.PasswordHash); err != nil {
			return fmt.Errorf("write member %d: %w", m.ID, err)
		}
	}

	for _, i := range snap.Issues {
		var returned int64
		if !i.ReturnedAt.IsZero() {
			returned = i.ReturnedAt.UnixMilli()
		}
		if _, err := tx.Exec(`INSERT INTO issues(id,member_id,book_id,issued_at,due_at,returned_at,fine_amount)
            VALUES(?,?,?,?,?,?,?)`,
			i.ID, i.MemberID, i.BookID, i.IssuedAt.UnixMilli(), i.DueAt.UnixMilli(), returned, i.FineAmount); err != nil {
			return fmt.Errorf("write issue %s: %w", i.ID, err)
		}
	}

	for pos, r := range snap.Reservations {
		if _, err := tx.Exec(`INSERT INTO reservations(position,member_id,book_id,created_at) VALUES(?,?,?,?)`,
			pos, r.MemberID, r.BookID, r.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("write reservation (%d,%d): %w", r.MemberID, r.BookID, err)
		}
	}

	for _, counter := range []struct {
		name  string
		value int64
	}{
		{"next_book_id", snap.NextBookID},
		{"next_member_id", snap.NextMemberID},
	} {
		if _, err := tx.Exec(`INSERT INTO counters(name,value) VALUES(?,?)
            ON CONFLICT(name) DO UPDATE SET value=excluded.value`, counter.name, counter.value); err != nil {
			return fmt.Errorf("write counter %s: %w", counter.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		slog.Warn("slow snapshot write", "elapsed", elapsed,
			"books", len(snap.Books), "members", len(snap.Members), "issues", len(snap.Issues))
	}
	return nil
}

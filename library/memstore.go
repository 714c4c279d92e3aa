package library

// MemStore is an in-memory SnapshotStore for tests and ephemeral runs. It
// keeps the last saved snapshot and hands back deep copies so callers cannot
// alias its state.
type MemStore struct {
	snap *Snapshot
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

// Load returns a copy of the last saved snapshot, or an empty one.
func (s *MemStore) Load() (*Snapshot, error) {
	if s.snap == nil {
		return &Snapshot{}, nil
	}
	return copySnapshot(s.snap), nil
}

// Save replaces the stored snapshot.
func (s *MemStore) Save(snap *Snapshot) error {
	s.snap = copySnapshot(snap)
	return nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

func copySnapshot(in *Snapshot) *Snapshot {
	out := &Snapshot{
		Books:        make([]Book, len(in.Books)),
		Members:      make([]Member, len(in.Members)),
		Issues:       make([]Issue, len(in.Issues)),
		Reservations: make([]Reservation, len(in.Reservations)),
		NextBookID:   in.NextBookID,
		NextMemberID: in.NextMemberID,
	}
	copy(out.Books, in.Books)
	copy(out.Members, in.Members)
	copy(out.Issues, in.Issues)
	copy(out.Reservations, in.Reservations)
	return out
}

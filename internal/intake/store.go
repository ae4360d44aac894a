package intake

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps forms in memory for as long as the employee works on them.
// Forms are handed out as copies; all edits go through Update.
type Store struct {
	mu    sync.Mutex
	forms map[uuid.UUID]*Form
}

func NewStore() *Store {
	return &Store{forms: make(map[uuid.UUID]*Form)}
}

// Create opens a fresh form for ownerID.
func (s *Store) Create(ownerID uint, now time.Time) *Form {
	f := NewForm(ownerID, now)

	s.mu.Lock()
	s.forms[f.ID] = f
	s.mu.Unlock()

	return f.Clone()
}

// Get returns a copy of the form. Forms of other owners are not found.
func (s *Store) Get(id uuid.UUID, ownerID uint) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok || f.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}
	return f.Clone(), nil
}

// Update runs fn against a copy of the form and keeps the copy only when fn
// succeeds. The returned form is the resulting state, or the untouched one
// when fn fails.
func (s *Store) Update(id uuid.UUID, ownerID uint, now time.Time, fn func(*Form) error) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok || f.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}

	next := f.Clone()
	if err := fn(next); err != nil {
		return f.Clone(), err
	}
	next.UpdatedAt = now
	s.forms[id] = next
	return next.Clone(), nil
}

// Delete discards the form.
func (s *Store) Delete(id uuid.UUID, ownerID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[id]
	if !ok || f.OwnerID != ownerID {
		return ErrDraftNotFound
	}
	delete(s.forms, id)
	return nil
}

// Prune drops forms not touched since before and reports how many went.
// Forms in the middle of a submission are kept.
func (s *Store) Prune(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, f := range s.forms {
		if f.Submitting || !f.UpdatedAt.Before(before) {
			continue
		}
		delete(s.forms, id)
		n++
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

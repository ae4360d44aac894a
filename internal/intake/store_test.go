package intake

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateGet(t *testing.T) {
	s := NewStore()
	f := s.Create(1, testNow)

	got, err := s.Get(f.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)

	_, err = s.Get(f.ID, 2)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = s.Get(uuid.New(), 1)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	f := s.Create(1, testNow)

	got, _ := s.Get(f.ID, 1)
	got.Draft.WhoTheyMeet = "mutated"

	again, _ := s.Get(f.ID, 1)
	assert.Empty(t, again.Draft.WhoTheyMeet)
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore()
	f := s.Create(1, testNow)
	later := testNow.Add(time.Minute)

	updated, err := s.Update(f.ID, 1, later, func(f *Form) error {
		f.Draft.WhoTheyMeet = "Jane"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Draft.WhoTheyMeet)
	assert.Equal(t, later, updated.UpdatedAt)

	boom := errors.New("boom")
	kept, err := s.Update(f.ID, 1, later.Add(time.Minute), func(f *Form) error {
		f.Draft.WhoTheyMeet = "discarded"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Jane", kept.Draft.WhoTheyMeet)
	assert.Equal(t, later, kept.UpdatedAt)

	_, err = s.Update(f.ID, 2, later, func(*Form) error { return nil })
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := NewStore()
	f := s.Create(1, testNow)

	assert.ErrorIs(t, s.Delete(f.ID, 2), ErrDraftNotFound)
	require.NoError(t, s.Delete(f.ID, 1))
	assert.ErrorIs(t, s.Delete(f.ID, 1), ErrDraftNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStorePrune(t *testing.T) {
	s := NewStore()
	old := s.Create(1, testNow.Add(-3*time.Hour))
	submitting := s.Create(1, testNow.Add(-3*time.Hour))
	fresh := s.Create(1, testNow)

	_, err := s.Update(submitting.ID, 1, testNow.Add(-3*time.Hour), func(f *Form) error {
		f.Submitting = true
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, s.Prune(testNow.Add(-2*time.Hour)))

	_, err = s.Get(old.ID, 1)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = s.Get(submitting.ID, 1)
	assert.NoError(t, err)
	_, err = s.Get(fresh.ID, 1)
	assert.NoError(t, err)
}

func TestStoreConcurrentUpdates(t *testing.T) {
	s := NewStore()
	v := NewValidator(time.UTC)
	f := s.Create(1, testNow)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(f.ID, 1, testNow, func(f *Form) error {
				return f.AddVisitor(v, testNow)
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(f.ID, 1)
	require.NoError(t, err)
	assert.Len(t, got.Draft.Visitors, 21)
}

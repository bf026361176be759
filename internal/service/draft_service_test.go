package service

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

type fakeDraftStore struct {
	mu      sync.Mutex
	creates int
	updates int
	last    domain.Draft
}

func (f *fakeDraftStore) CreateDraft(d *domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	d.ID = "draft-1"
	f.last = *d
	return nil
}

func (f *fakeDraftStore) UpdateDraft(d *domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.last = *d
	return nil
}

func (f *fakeDraftStore) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

func (f *fakeDraftStore) lastParams() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last.Params
}

func TestAutosaverCoalescesRapidEdits(t *testing.T) {
	store := &fakeDraftStore{}
	saver := NewDraftAutosaver(store, zerolog.Nop(), 30*time.Millisecond)
	defer saver.Close()

	saver.Save(domain.Draft{ClientID: "c1", Params: "one"})
	saver.Save(domain.Draft{ClientID: "c1", Params: "two"})
	saver.Save(domain.Draft{ClientID: "c1", Params: "three"})

	assert.Eventually(t, func() bool {
		creates, _ := store.counts()
		return creates == 1
	}, time.Second, 5*time.Millisecond)

	creates, updates := store.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 0, updates)
	assert.Equal(t, "three", store.lastParams())
	assert.Equal(t, "draft-1", saver.DraftID())
}

func TestAutosaverFlushWritesImmediately(t *testing.T) {
	store := &fakeDraftStore{}
	saver := NewDraftAutosaver(store, zerolog.Nop(), time.Hour)
	defer saver.Close()

	saver.Save(domain.Draft{ClientID: "c1", Params: "snapshot"})

	id, err := saver.Flush()
	require.NoError(t, err)
	assert.Equal(t, "draft-1", id)

	creates, _ := store.counts()
	assert.Equal(t, 1, creates)
}

func TestAutosaverSecondFlushUpdates(t *testing.T) {
	store := &fakeDraftStore{}
	saver := NewDraftAutosaver(store, zerolog.Nop(), time.Hour)
	defer saver.Close()

	saver.Save(domain.Draft{ClientID: "c1", Params: "first"})
	_, err := saver.Flush()
	require.NoError(t, err)

	saver.Save(domain.Draft{ClientID: "c1", Params: "second"})
	id, err := saver.Flush()
	require.NoError(t, err)
	assert.Equal(t, "draft-1", id)

	creates, updates := store.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, updates)
	assert.Equal(t, "second", store.lastParams())
}

func TestAutosaverFlushWithNothingPending(t *testing.T) {
	store := &fakeDraftStore{}
	saver := NewDraftAutosaver(store, zerolog.Nop(), time.Hour)
	defer saver.Close()

	id, err := saver.Flush()
	require.NoError(t, err)
	assert.Empty(t, id)

	creates, updates := store.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)
}

func TestAutosaverCloseCancelsPendingWrite(t *testing.T) {
	store := &fakeDraftStore{}
	saver := NewDraftAutosaver(store, zerolog.Nop(), 20*time.Millisecond)

	saver.Save(domain.Draft{ClientID: "c1", Params: "abandoned"})
	saver.Close()

	time.Sleep(80 * time.Millisecond)
	creates, updates := store.counts()
	assert.Zero(t, creates)
	assert.Zero(t, updates)

	// Saves after Close are ignored.
	saver.Save(domain.Draft{ClientID: "c1", Params: "late"})
	time.Sleep(50 * time.Millisecond)
	creates, _ = store.counts()
	assert.Zero(t, creates)
}

package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ambegrouplimited/reminderd/internal/domain"
)

// DefaultAutosaveDebounce is the quiet period before a pending draft edit is
// written out.
const DefaultAutosaveDebounce = 600 * time.Millisecond

// DraftStore is the slice of storage the autosaver needs.
type DraftStore interface {
	CreateDraft(d *domain.Draft) error
	UpdateDraft(d *domain.Draft) error
}

// DraftAutosaver coalesces rapid schedule edits into a single outbound write
// after a quiet period. Writes are last-writer-wins at the snapshot level;
// callers needing stronger ordering serialize their own saves.
type DraftAutosaver struct {
	store DraftStore
	log   zerolog.Logger
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *domain.Draft
	draftID string
	closed  bool
}

func NewDraftAutosaver(store DraftStore, log zerolog.Logger, delay time.Duration) *DraftAutosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDebounce
	}
	return &DraftAutosaver{
		store: store,
		log:   log,
		delay: delay,
	}
}

// Save records snapshot as the pending draft state and (re)arms the debounce
// timer. Rapid successive calls collapse into one write of the latest
// snapshot.
func (a *DraftAutosaver) Save(snapshot domain.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = &snapshot
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if _, err := a.Flush(); err != nil {
			a.log.Error().Err(err).Msg("autosave draft")
		}
	})
}

// Flush cancels any pending timer and writes the pending snapshot
// immediately, returning the draft id. With nothing pending it returns the
// id of the last write, empty when nothing was ever saved.
func (a *DraftAutosaver) Flush() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.pending == nil {
		return a.draftID, nil
	}
	d := a.pending
	a.pending = nil

	if a.draftID == "" {
		if err := a.store.CreateDraft(d); err != nil {
			a.pending = d
			return "", fmt.Errorf("create draft: %w", err)
		}
		a.draftID = d.ID
		a.log.Debug().Str("draft_id", d.ID).Msg("draft created")
		return a.draftID, nil
	}

	d.ID = a.draftID
	if err := a.store.UpdateDraft(d); err != nil {
		a.pending = d
		return "", fmt.Errorf("update draft: %w", err)
	}
	a.log.Debug().Str("draft_id", d.ID).Msg("draft updated")
	return a.draftID, nil
}

// DraftID returns the id of the persisted draft, empty before the first
// write.
func (a *DraftAutosaver) DraftID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draftID
}

// Close cancels any pending write without performing it. Abandoning the
// editor must not leave a timer running.
func (a *DraftAutosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
}

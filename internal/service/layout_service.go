package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"rangedeck/internal/domain"
	"rangedeck/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Layout Service — persistence, autosave, crash recovery
// ─────────────────────────────────────────────────────────────

// autosaveDelay is how long after the last edit a queued save fires.
const autosaveDelay = 800 * time.Millisecond

// recoveryKeep is how many crash-recovery snapshots survive per room.
const recoveryKeep = 5

// LayoutService persists room layouts. Saves coming from the editor are
// debounced so rapid edits collapse into one write; a cron job additionally
// snapshots the active room for crash recovery.
type LayoutService struct {
	store   *storage.LayoutStore
	emitter EventEmitter

	mu      sync.Mutex
	timer   *time.Timer
	pending *pendingSave

	cron *cron.Cron
}

type pendingSave struct {
	roomID   string
	layout   domain.Layout
	viewport domain.Viewport
}

// NewLayoutService creates a LayoutService.
func NewLayoutService(store *storage.LayoutStore, emitter EventEmitter) *LayoutService {
	return &LayoutService{store: store, emitter: emitter}
}

// LoadLayout returns the stored layout for a room, or nil when the room has
// none yet.
func (s *LayoutService) LoadLayout(roomID string) (*domain.RoomLayout, error) {
	return s.store.LoadLayout(roomID)
}

// SaveLayout writes the layout immediately, bypassing the debounce. Any
// queued save for the same room is dropped.
func (s *LayoutService) SaveLayout(ctx context.Context, roomID string, layout domain.Layout, viewport domain.Viewport) error {
	s.mu.Lock()
	if s.pending != nil && s.pending.roomID == roomID {
		s.cancelTimerLocked()
	}
	s.mu.Unlock()

	if err := s.store.SaveLayout(roomID, layout, viewport); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	s.emitter.Emit(ctx, "layout:saved", roomID)
	return nil
}

// QueueSave schedules a debounced save. Each call resets the timer, so a
// burst of edits produces a single write after the burst ends. A queued
// save for a different room is flushed first.
func (s *LayoutService) QueueSave(ctx context.Context, roomID string, layout domain.Layout, viewport domain.Viewport) {
	s.mu.Lock()
	if s.pending != nil && s.pending.roomID != roomID {
		prev := s.pending
		s.cancelTimerLocked()
		s.mu.Unlock()
		s.SaveLayout(ctx, prev.roomID, prev.layout, prev.viewport)
		s.mu.Lock()
	}

	s.pending = &pendingSave{roomID: roomID, layout: layout, viewport: viewport}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(autosaveDelay, func() { s.Flush(ctx) })
	s.mu.Unlock()
}

// Flush writes the queued save, if any, right away.
func (s *LayoutService) Flush(ctx context.Context) error {
	s.mu.Lock()
	p := s.pending
	s.cancelTimerLocked()
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	return s.SaveLayout(ctx, p.roomID, p.layout, p.viewport)
}

func (s *LayoutService) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

// DeleteLayout drops the stored layout and all recovery snapshots for a room.
func (s *LayoutService) DeleteLayout(roomID string) error {
	if err := s.store.DeleteRecoverySnapshots(roomID); err != nil {
		return err
	}
	return s.store.DeleteLayout(roomID)
}

// ── Crash recovery ─────────────────────────────────────────

// StartRecoverySchedule begins periodic crash-recovery snapshots of
// whatever layout the fetch callback returns. The callback returns
// ok=false when no room is open.
func (s *LayoutService) StartRecoverySchedule(spec string, fetch func() (string, domain.Layout, bool)) error {
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		roomID, layout, ok := fetch()
		if !ok {
			return
		}
		s.store.SaveRecoverySnapshot(uuid.New().String(), roomID, layout, recoveryKeep)
	})
	if err != nil {
		return fmt.Errorf("schedule recovery snapshots: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// StopRecoverySchedule halts the snapshot job and waits for a running one.
func (s *LayoutService) StopRecoverySchedule() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron = nil
}

// LatestRecovery returns the newest crash-recovery snapshot for a room, or
// nil when none exists.
func (s *LayoutService) LatestRecovery(roomID string) (*storage.RecoverySnapshot, error) {
	return s.store.LatestRecoverySnapshot(roomID)
}

// ClearRecovery drops the recovery snapshots for a room, typically after a
// clean save.
func (s *LayoutService) ClearRecovery(roomID string) error {
	return s.store.DeleteRecoverySnapshots(roomID)
}

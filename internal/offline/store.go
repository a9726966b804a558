// Package offline is the durable on-device queue for captures that could not
// reach any remote target. Append-only: entries leave the queue only through
// RemoveSynced after a confirmed remote sync of that exact entry.
package offline

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"dispocam/internal/database"
)

type Store struct {
	db *gorm.DB

	// Serializes enqueue/remove against each other. List reads go straight
	// to sqlite; per-entry removal keeps concurrent drain safe without a
	// wholesale replace-after-read.
	mu sync.Mutex
}

// Open connects the queue database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := database.Connect(path)
	if err != nil {
		return nil, fmt.Errorf("offline store open: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("offline store migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database, mainly for tests.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("offline store migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Enqueue appends an entry. The caller keeps the in-memory capture until this
// returns nil; a storage failure is surfaced, never swallowed.
func (s *Store) Enqueue(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("offline enqueue: %w", err)
	}
	return nil
}

// ListAll returns every queued entry in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).Order("seq ASC").Find(&entries).Error
	return entries, err
}

// ListForCamera returns queued entries for one camera in insertion order.
func (s *Store) ListForCamera(ctx context.Context, cameraID string) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).Where("camera_id = ?", cameraID).Order("seq ASC").Find(&entries).Error
	return entries, err
}

// RemoveSynced deletes exactly the given entries. Entries already gone are
// ignored, so overlapping drains stay idempotent.
func (s *Store) RemoveSynced(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	seqs := make([]int64, 0, len(entries))
	for _, e := range entries {
		seqs = append(seqs, e.Seq)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.WithContext(ctx).Where("seq IN ?", seqs).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("offline remove synced: %w", err)
	}
	return nil
}

package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger is the append/query surface of the audit log. Append assigns
// the id and timestamp; entries are never mutated afterwards.
type Logger interface {
	Append(ctx context.Context, entry Entry) (*Entry, error)
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Close() error
}

// MemoryLogger keeps entries in memory. Used by tests and by the
// memory storage profile.
type MemoryLogger struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryLogger creates an empty in-memory audit logger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Append stores a copy of the entry with a fresh id and timestamp.
func (l *MemoryLogger) Append(ctx context.Context, entry Entry) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()
	stored := entry
	l.entries = append(l.entries, &stored)

	out := stored
	return &out, nil
}

// Query returns matching entries newest-first.
func (l *MemoryLogger) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Walk in reverse insertion order so entries appended in the same
	// clock tick still come out newest-first.
	var out []*Entry
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ActorOrTargetID != "" &&
			e.ActorID != filter.ActorOrTargetID && e.TargetMemberID != filter.ActorOrTargetID {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Close is a no-op for the memory logger.
func (l *MemoryLogger) Close() error {
	return nil
}

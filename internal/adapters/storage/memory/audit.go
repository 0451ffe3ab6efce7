package memory

import (
	"context"
	"sync"

	"crafty-bot/internal/core/domain"
)

const DefaultCapacity = 500

// AuditLog keeps the most recent server actions in memory. It is used when
// no database is configured; entries are lost on restart.
type AuditLog struct {
	mu       sync.RWMutex
	entries  []domain.AuditEntry
	capacity int
}

func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &AuditLog{capacity: capacity}
}

func (l *AuditLog) RecordAction(_ context.Context, entry domain.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
	return nil
}

// RecentActions returns up to limit entries for serverID, newest first.
func (l *AuditLog) RecentActions(_ context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.AuditEntry, 0, min(limit, len(l.entries)))
	for i := len(l.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if l.entries[i].ServerID == serverID {
			result = append(result, l.entries[i])
		}
	}
	return result, nil
}

func (l *AuditLog) Close() {}

package reactions

import (
	"sync"
	"time"

	"crafty-bot/internal/core/domain"
)

// PendingStore holds at most one destructive action awaiting confirmation per
// prompt message.
type PendingStore struct {
	mu      sync.Mutex
	pending map[string]domain.PendingConfirmation
	now     func() time.Time
}

func NewPendingStore() *PendingStore {
	return newPendingStore(time.Now)
}

func newPendingStore(now func() time.Time) *PendingStore {
	return &PendingStore{
		pending: make(map[string]domain.PendingConfirmation),
		now:     now,
	}
}

func (p *PendingStore) Put(pc domain.PendingConfirmation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[pc.MessageID] = pc
}

// Take removes and returns the record for messageID. Two concurrent callers
// never both receive it; an expired record is dropped and reported missing.
func (p *PendingStore) Take(messageID string) (domain.PendingConfirmation, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pc, ok := p.pending[messageID]
	if !ok {
		return domain.PendingConfirmation{}, false
	}
	delete(p.pending, messageID)

	if p.now().After(pc.ExpiresAt) {
		return domain.PendingConfirmation{}, false
	}
	return pc, true
}

func (p *PendingStore) Remove(messageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, messageID)
}

func (p *PendingStore) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	removed := 0
	for id, pc := range p.pending {
		if now.After(pc.ExpiresAt) {
			delete(p.pending, id)
			removed++
		}
	}
	return removed
}

func (p *PendingStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

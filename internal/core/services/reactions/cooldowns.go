package reactions

import (
	"sync"
	"time"

	"crafty-bot/internal/core/domain"
)

type cooldownKey struct {
	userID string
	action domain.ActionName
}

// CooldownTracker rate-limits each user per action, independent of sessions.
type CooldownTracker struct {
	mu      sync.Mutex
	readyAt map[cooldownKey]time.Time
	now     func() time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return newCooldownTracker(time.Now)
}

func newCooldownTracker(now func() time.Time) *CooldownTracker {
	return &CooldownTracker{
		readyAt: make(map[cooldownKey]time.Time),
		now:     now,
	}
}

// TryAcquire records a dispatch of action by userID unless the previous one
// is less than cooldown ago, in which case it returns the time left.
func (c *CooldownTracker) TryAcquire(userID string, action domain.ActionName, cooldown time.Duration) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cooldownKey{userID: userID, action: action}
	now := c.now()
	if ready, ok := c.readyAt[key]; ok && now.Before(ready) {
		return false, ready.Sub(now)
	}

	c.readyAt[key] = now.Add(cooldown)
	return true, 0
}

// Sweep evicts entries whose cooldown has elapsed.
func (c *CooldownTracker) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, ready := range c.readyAt {
		if !now.Before(ready) {
			delete(c.readyAt, key)
			removed++
		}
	}
	return removed
}

func (c *CooldownTracker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.readyAt)
}

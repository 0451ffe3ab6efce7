package discord

import (
	"sync"
	"time"

	"crafty-bot/internal/core/domain"
)

const userCacheTTL = 10 * time.Minute

type cachedUser struct {
	user      domain.User
	expiresAt time.Time
}

type userCache struct {
	mu    sync.RWMutex
	items map[string]cachedUser
	ttl   time.Duration
	now   func() time.Time
}

func newUserCache(ttl time.Duration, now func() time.Time) *userCache {
	return &userCache{
		items: make(map[string]cachedUser),
		ttl:   ttl,
		now:   now,
	}
}

func (c *userCache) Get(userID string) (domain.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[userID]
	if !ok || c.now().After(item.expiresAt) {
		return domain.User{}, false
	}
	return item.user, true
}

// Set stores user and drops every entry that has expired.
func (c *userCache) Set(user domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, id)
		}
	}
	c.items[user.ID] = cachedUser{user: user, expiresAt: now.Add(c.ttl)}
}

func (c *userCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

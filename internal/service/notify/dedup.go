package notify

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"linkbio/internal/model"
)

// dedupCache is a time-bounded set of message hashes.
type dedupCache struct {
	mu    sync.Mutex
	items map[string]time.Time
	ttl   time.Duration
}

func newDedupCache(ttl time.Duration) *dedupCache {
	return &dedupCache{
		items: make(map[string]time.Time),
		ttl:   ttl,
	}
}

// messageKey covers the parse mode too: the same text rendered differently
// is a different message.
func messageKey(msg model.Message) string {
	sum := sha256.Sum256([]byte(msg.ParseMode + "\x00" + msg.Text))
	return hex.EncodeToString(sum[:])
}

// claim prunes expired entries and records key. It returns false when key
// was already claimed inside the TTL.
func (c *dedupCache) claim(key string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, ts := range c.items {
		if now.Sub(ts) > c.ttl {
			delete(c.items, k)
		}
	}
	if _, ok := c.items[key]; ok {
		return false
	}
	c.items[key] = now
	return true
}

// release forgets a claim so a failed delivery can be retried.
func (c *dedupCache) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *dedupCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

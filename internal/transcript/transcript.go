// Package transcript keeps a short rolling window of chat messages in Redis
// so agent turns do not have to reload the full chat document.
package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/stores/redis"

	cachekeys "habitual-api/internal/cache"
	"habitual-api/pkg/llm"
)

const defaultLimit = 20

// Cache stores msgpack-encoded message windows keyed by chat id.
// A Cache with no Redis is valid and never hits.
type Cache struct {
	rds   *redis.Redis
	ttl   time.Duration
	limit int
}

// New returns a transcript cache. rds may be nil.
func New(rds *redis.Redis, ttl time.Duration, limit int) *Cache {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Cache{rds: rds, ttl: ttl, limit: limit}
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.rds != nil
}

// Limit is the maximum number of messages kept per chat.
func (c *Cache) Limit() int {
	return c.limit
}

// Load returns the cached window. ok is false on a miss.
func (c *Cache) Load(ctx context.Context, chatID string) ([]llm.Message, bool, error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.rds.GetCtx(ctx, cachekeys.TranscriptKey(chatID))
	if err != nil {
		return nil, false, fmt.Errorf("transcript: get %s: %w", chatID, err)
	}
	if raw == "" {
		return nil, false, nil
	}
	msgs, err := decode([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return msgs, true, nil
}

// Save replaces the cached window with the last Limit messages of msgs.
func (c *Cache) Save(ctx context.Context, chatID string, msgs []llm.Message) error {
	if !c.Enabled() {
		return nil
	}
	data, err := encode(Window(msgs, c.limit))
	if err != nil {
		return err
	}
	key := cachekeys.TranscriptKey(chatID)
	seconds := int(c.ttl / time.Second)
	if seconds <= 0 {
		err = c.rds.SetCtx(ctx, key, string(data))
	} else {
		err = c.rds.SetexCtx(ctx, key, string(data), seconds)
	}
	if err != nil {
		return fmt.Errorf("transcript: set %s: %w", chatID, err)
	}
	return nil
}

// Drop removes the cached window.
func (c *Cache) Drop(ctx context.Context, chatID string) error {
	if !c.Enabled() {
		return nil
	}
	if _, err := c.rds.DelCtx(ctx, cachekeys.TranscriptKey(chatID)); err != nil {
		return fmt.Errorf("transcript: del %s: %w", chatID, err)
	}
	return nil
}

// Window returns the last n messages of msgs.
func Window(msgs []llm.Message, n int) []llm.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

func encode(msgs []llm.Message) ([]byte, error) {
	data, err := msgpack.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("transcript: encode: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]llm.Message, error) {
	var msgs []llm.Message
	if err := msgpack.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	return msgs, nil
}

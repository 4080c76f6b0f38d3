package cache

import (
	"strings"
	"time"

	"habitual-api/internal/config"
)

// Namespace is the Redis key prefix for the habitual application.
const Namespace = "habitual"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

// Scaled applies a multiplier to a TTL class.
func (t TTLSet) Scaled(class TTLClass, factor float64) time.Duration {
	base := t.Duration(class)
	if base <= 0 || factor <= 0 {
		return base
	}
	return time.Duration(float64(base) * factor)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// --- Documents ---------------------------------------------------------------

// DocumentKey caches a single stored document.
func DocumentKey(collection, id string) string {
	return formatKey("doc", collection, id)
}

// --- Chats -------------------------------------------------------------------

// TranscriptKey holds the recent message window of a chat.
func TranscriptKey(chatID string) string {
	return formatKey("chat", chatID, "transcript")
}

// ChatLockKey serialises agent turns on one chat.
func ChatLockKey(chatID string) string {
	return formatKey("lock", "chat", chatID)
}

// --- TTL Helpers -------------------------------------------------------------

// DocumentTTL returns the TTL for cached documents.
func DocumentTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// TranscriptTTL returns the TTL for chat transcripts.
func TranscriptTTL(ttl TTLSet) time.Duration {
	return ttl.Scaled(TTLLong, 12) // ~1h when long=300s
}

// ChatLockTTL bounds how long a crashed turn can hold a chat.
func ChatLockTTL(ttl TTLSet) time.Duration {
	return ttl.Scaled(TTLShort, 12) // ~2m when short=10s
}

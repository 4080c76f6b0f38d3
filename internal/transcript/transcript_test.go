package transcript

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"habitual-api/pkg/llm"
)

func sample(n int) []llm.Message {
	msgs := make([]llm.Message, 0, n)
	for i := 0; i < n; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: string(rune('a' + i))})
	}
	return msgs
}

func TestWindow(t *testing.T) {
	msgs := sample(5)
	require.Equal(t, msgs[3:], Window(msgs, 2))
	require.Equal(t, msgs, Window(msgs, 10))
	require.Equal(t, msgs, Window(msgs, 0))
	require.Empty(t, Window(nil, 3))
}

func TestCodec(t *testing.T) {
	msgs := []llm.Message{
		{Role: llm.RoleUser, Content: "plan my week", Name: "alex"},
		{Role: llm.RoleAssistant, Content: "GENERATE_ACTIONS\n---\n{}"},
	}
	data, err := encode(msgs)
	require.NoError(t, err)
	got, err := decode(data)
	require.NoError(t, err)
	require.Equal(t, msgs, got)

	_, err = decode([]byte{0xc1})
	require.Error(t, err)
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(nil, time.Minute, 0)
	require.False(t, c.Enabled())
	require.Equal(t, defaultLimit, c.Limit())

	require.NoError(t, c.Save(ctx, "c1", sample(3)))
	msgs, ok, err := c.Load(ctx, "c1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, msgs)
	require.NoError(t, c.Drop(ctx, "c1"))

	var nilCache *Cache
	require.False(t, nilCache.Enabled())
}

// TestRedisRoundTrip runs against a real server when HABITUAL_TEST_REDIS is set.
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("HABITUAL_TEST_REDIS")
	if addr == "" {
		t.Skip("HABITUAL_TEST_REDIS not set; skipping redis test")
	}
	ctx := context.Background()
	rds := redis.MustNewRedis(redis.RedisConf{Host: addr, Type: redis.NodeType})
	c := New(rds, time.Minute, 3)

	chatID := "test-" + time.Now().Format("150405.000000")
	require.NoError(t, c.Save(ctx, chatID, sample(5)))

	msgs, ok, err := c.Load(ctx, chatID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sample(5)[2:], msgs)

	require.NoError(t, c.Drop(ctx, chatID))
	_, ok, err = c.Load(ctx, chatID)
	require.NoError(t, err)
	require.False(t, ok)
}

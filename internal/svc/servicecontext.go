package svc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	cachekeys "habitual-api/internal/cache"
	"habitual-api/internal/config"
	"habitual-api/internal/store"
	"habitual-api/internal/transcript"
	"habitual-api/pkg/journal"
	llmpkg "habitual-api/pkg/llm"
	"habitual-api/pkg/prompt"
	"habitual-api/pkg/signal"
)

type ServiceContext struct {
	Config config.Config
	TTL    cachekeys.TTLSet

	DB    *sql.DB
	Store store.Store
	// Redis is nil when no host is configured.
	Redis *redis.Redis

	// LLM is nil when no LLM section is configured.
	LLM         llmpkg.LLMClient
	Prompt      *prompt.Template
	Parser      *signal.Parser
	Validator   *signal.Validator
	Transcripts *transcript.Cache
	// Journal is nil when journaling is disabled.
	Journal *journal.Writer

	Now func() time.Time
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	ttl := cachekeys.NewTTLSet(c.TTL)
	svc := &ServiceContext{
		Config:    c,
		TTL:       ttl,
		Parser:    signal.NewParser(nil),
		Validator: signal.MustNewValidator(signal.DefaultSchemas()),
		Now:       time.Now,
	}

	conn, db, err := store.Open(c.Store.Driver, c.Store.DSN, store.PoolConf{MaxOpen: c.Store.MaxOpen, MaxIdle: c.Store.MaxIdle})
	if err != nil {
		return nil, err
	}
	svc.DB = db
	if c.Store.AutoMigrate {
		if err := store.Migrate(context.Background(), conn); err != nil {
			return nil, err
		}
	}

	var storeOpts []store.Option
	if c.HasRedis() {
		svc.Redis = redis.MustNewRedis(c.Redis)
		docCache := cache.NewNode(svc.Redis, syncx.NewSingleFlight(), cache.NewStat("documents"),
			sqlx.ErrNotFound, cache.WithExpiry(cachekeys.DocumentTTL(ttl)))
		storeOpts = append(storeOpts, store.WithCache(docCache, cachekeys.DocumentTTL(ttl)))
	}
	svc.Store, err = store.NewSQLStore(conn, c.Store.Driver, storeOpts...)
	if err != nil {
		return nil, err
	}
	svc.Transcripts = transcript.New(svc.Redis, cachekeys.TranscriptTTL(ttl), c.Chat.HistoryLimit)

	if c.LLM.Loaded() {
		client, err := llmpkg.NewClient(c.LLM.Value)
		if err != nil {
			return nil, fmt.Errorf("init llm client: %w", err)
		}
		svc.LLM = client
	} else {
		logx.Slow("no LLM config section; agent chat is disabled")
	}

	svc.Prompt, err = prompt.NewTemplate(c.PromptPath(), nil)
	if err != nil {
		return nil, err
	}

	if dir := c.JournalPath(); dir != "" {
		svc.Journal, err = journal.NewWriter(dir)
		if err != nil {
			return nil, err
		}
	}
	return svc, nil
}

func MustNewServiceContext(c config.Config) *ServiceContext {
	svc, err := NewServiceContext(c)
	logx.Must(err)
	return svc
}

// Close releases the database pool and LLM client.
func (s *ServiceContext) Close() {
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

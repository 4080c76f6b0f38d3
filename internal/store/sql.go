package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "habitual-api/internal/cache"
)

const documentColumns = "collection, id, user_id, data, created_at_ms, updated_at_ms"

type documentRow struct {
	Collection string `db:"collection" json:"c"`
	ID         string `db:"id" json:"i"`
	UserID     string `db:"user_id" json:"u"`
	Data       string `db:"data" json:"d"`
	CreatedAt  int64  `db:"created_at_ms" json:"ca"`
	UpdatedAt  int64  `db:"updated_at_ms" json:"ua"`
}

func (r *documentRow) toDocument() (*Document, error) {
	data := map[string]any{}
	if r.Data != "" {
		if err := json.Unmarshal([]byte(r.Data), &data); err != nil {
			return nil, fmt.Errorf("store: decode %s/%s: %w", r.Collection, r.ID, err)
		}
	}
	return &Document{
		ID:         r.ID,
		Collection: r.Collection,
		UserID:     r.UserID,
		Data:       data,
		CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMilli(r.UpdatedAt).UTC(),
	}, nil
}

// SQLStore implements Store on a single documents table.
type SQLStore struct {
	conn   sqlx.SqlConn
	driver string
	cache  cache.Cache
	ttl    time.Duration
	nowFn  func() time.Time
	newID  func() string
}

var _ Store = (*SQLStore)(nil)

// Option configures a SQLStore.
type Option func(*SQLStore)

// WithCache enables cache-aside reads. c must be built with
// sqlx.ErrNotFound as its not-found error.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *SQLStore) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithClock overrides the timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(s *SQLStore) {
		s.nowFn = fn
	}
}

// WithIDGenerator overrides how ids are minted for Create with an empty id.
func WithIDGenerator(fn func() string) Option {
	return func(s *SQLStore) {
		s.newID = fn
	}
}

// NewSQLStore wraps conn. driver selects the placeholder dialect.
func NewSQLStore(conn sqlx.SqlConn, driver string, opts ...Option) (*SQLStore, error) {
	if conn == nil {
		return nil, errors.New("store: nil connection")
	}
	switch driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	s := &SQLStore{
		conn:   conn,
		driver: driver,
		nowFn:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SQLStore) now() int64 {
	return s.nowFn().UTC().UnixMilli()
}

// Create inserts a new document. An empty id is replaced with a uuid.
func (s *SQLStore) Create(ctx context.Context, collection, userID, id string, data map[string]any) (*Document, error) {
	if strings.TrimSpace(collection) == "" || strings.TrimSpace(userID) == "" {
		return nil, errors.New("store: collection and userID are required")
	}
	if id == "" {
		id = s.newID()
	}
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("store: encode %s/%s: %w", collection, id, err)
	}

	ts := s.now()
	row := documentRow{
		Collection: collection,
		ID:         id,
		UserID:     userID,
		Data:       string(payload),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	query := rebind(s.driver, `INSERT INTO documents (`+documentColumns+`) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.conn.ExecCtx(ctx, query, row.Collection, row.ID, row.UserID, row.Data, row.CreatedAt, row.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrConflict, collection, id)
		}
		return nil, fmt.Errorf("store: insert %s/%s: %w", collection, id, err)
	}
	s.invalidate(ctx, collection, id)
	return row.toDocument()
}

// Get loads one document, consulting the cache first when configured.
func (s *SQLStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	var err error
	if s.cache != nil {
		key := cachekeys.DocumentKey(collection, id)
		err = s.cache.TakeWithExpireCtx(ctx, &row, key, func(v any, _ time.Duration) error {
			return s.loadRow(ctx, s.conn, collection, id, v.(*documentRow))
		})
	} else {
		err = s.loadRow(ctx, s.conn, collection, id, &row)
	}
	switch {
	case err == nil:
		return row.toDocument()
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	default:
		return nil, fmt.Errorf("store: get %s/%s: %w", collection, id, err)
	}
}

func (s *SQLStore) loadRow(ctx context.Context, session sqlx.Session, collection, id string, row *documentRow) error {
	query := rebind(s.driver, `SELECT `+documentColumns+` FROM documents WHERE collection = ? AND id = ?`)
	return session.QueryRowCtx(ctx, row, query, collection, id)
}

// Query lists a user's documents in one collection.
func (s *SQLStore) Query(ctx context.Context, collection string, q Query) ([]*Document, error) {
	if strings.TrimSpace(q.UserID) == "" {
		return nil, errors.New("store: query requires a user id")
	}
	column, err := q.orderColumn()
	if err != nil {
		return nil, err
	}
	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}

	query := `SELECT ` + documentColumns + ` FROM documents WHERE collection = ? AND user_id = ? ORDER BY ` +
		column + ` ` + direction + `, id ` + direction
	args := []any{collection, q.UserID}
	// Filters run in Go, so only push the limit down when there are none.
	if q.Limit > 0 && len(q.Where) == 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	var rows []documentRow
	if err := s.conn.QueryRowsCtx(ctx, &rows, rebind(s.driver, query), args...); err != nil {
		return nil, fmt.Errorf("store: query %s: %w", collection, err)
	}

	docs := make([]*Document, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].toDocument()
		if err != nil {
			return nil, err
		}
		if !q.matches(doc) {
			continue
		}
		docs = append(docs, doc)
		if q.Limit > 0 && len(docs) == q.Limit {
			break
		}
	}
	return docs, nil
}

// Update shallow-merges patch into the stored data and bumps updated time.
func (s *SQLStore) Update(ctx context.Context, collection, id string, patch map[string]any) (*Document, error) {
	var updated documentRow
	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		var row documentRow
		if err := s.loadRow(ctx, session, collection, id, &row); err != nil {
			return err
		}
		doc, err := row.toDocument()
		if err != nil {
			return err
		}
		payload, err := json.Marshal(merge(doc.Data, patch))
		if err != nil {
			return fmt.Errorf("store: encode %s/%s: %w", collection, id, err)
		}
		row.Data = string(payload)
		if ts := s.now(); ts > row.UpdatedAt {
			row.UpdatedAt = ts
		}
		query := rebind(s.driver, `UPDATE documents SET data = ?, updated_at_ms = ? WHERE collection = ? AND id = ?`)
		if _, err := session.ExecCtx(ctx, query, row.Data, row.UpdatedAt, collection, id); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		if errors.Is(err, sqlx.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("store: update %s/%s: %w", collection, id, err)
	}
	s.invalidate(ctx, collection, id)
	return updated.toDocument()
}

// Delete removes a document. Missing documents report ErrNotFound.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	query := rebind(s.driver, `DELETE FROM documents WHERE collection = ? AND id = ?`)
	res, err := s.conn.ExecCtx(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	s.invalidate(ctx, collection, id)
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

func (s *SQLStore) invalidate(ctx context.Context, collection, id string) {
	if s.cache == nil {
		return
	}
	key := cachekeys.DocumentKey(collection, id)
	if err := s.cache.DelCtx(ctx, key); err != nil && !s.cache.IsNotFound(err) {
		logx.WithContext(ctx).Errorf("invalidate cache %s: %v", key, err)
	}
}

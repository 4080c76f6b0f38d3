// Package store persists user-owned JSON documents grouped by collection.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("store: document not found")
	ErrConflict = errors.New("store: document already exists")
)

// Order columns accepted by Query.
const (
	OrderCreated = "created"
	OrderUpdated = "updated"
)

// Document is one stored record. Data never contains the envelope fields.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	UserID     string         `json:"userId"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Flatten merges the envelope into a copy of Data for API responses.
func (d *Document) Flatten() map[string]any {
	out := make(map[string]any, len(d.Data)+4)
	for k, v := range d.Data {
		out[k] = v
	}
	out["id"] = d.ID
	out["userId"] = d.UserID
	out["createdAt"] = d.CreatedAt.UnixMilli()
	out["updatedAt"] = d.UpdatedAt.UnixMilli()
	return out
}

// String returns the value of a top-level string field, or "".
func (d *Document) String(field string) string {
	if d == nil {
		return ""
	}
	s, _ := d.Data[field].(string)
	return s
}

// Filter is an equality match on a top-level data field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents of one owner.
type Query struct {
	UserID  string
	Where   []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Store is the document persistence contract used by the API.
type Store interface {
	Create(ctx context.Context, collection, userID, id string, data map[string]any) (*Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
	Update(ctx context.Context, collection, id string, patch map[string]any) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
}

func (q Query) matches(doc *Document) bool {
	for _, f := range q.Where {
		if fmt.Sprint(doc.Data[f.Field]) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func (q Query) orderColumn() (string, error) {
	switch strings.ToLower(strings.TrimSpace(q.OrderBy)) {
	case "", OrderCreated:
		return "created_at_ms", nil
	case OrderUpdated:
		return "updated_at_ms", nil
	default:
		return "", fmt.Errorf("store: unsupported order %q", q.OrderBy)
	}
}

// merge applies a shallow patch. Nil values delete the key.
func merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// SortByCreated orders docs oldest first, breaking ties by id.
func SortByCreated(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
}

package docs

import (
	"context"
	"errors"
	"strings"

	"habitual-api/internal/entity"
	"habitual-api/internal/errorx"
	"habitual-api/internal/store"
)

const maxListLimit = 500

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errorx.BadRequest("userId is required")
	}
	return nil
}

// LoadOwned fetches a document and checks that userID owns it.
func LoadOwned(ctx context.Context, st store.Store, collection, id, userID string) (*store.Document, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if _, err := entity.Lookup(collection); err != nil {
		return nil, err
	}
	doc, err := st.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errorx.NotFound(collection + "/" + id + " not found")
		}
		return nil, err
	}
	if doc.UserID != userID {
		return nil, errorx.Forbidden("document belongs to another user")
	}
	return doc, nil
}

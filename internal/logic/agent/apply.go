package agent

import (
	"context"
	"fmt"

	"habitual-api/internal/entity"
	"habitual-api/internal/store"
	"habitual-api/pkg/signal"
)

// Draft and measurement provenance values.
const (
	draftKindAction   = "action"
	draftKindAsset    = "asset"
	draftStatusOpen   = "pending"
	measurementSource = "agent"
)

// turnOwner identifies who a signal's side effects belong to.
type turnOwner struct {
	UserID  string
	AgentID string
	ChatID  string
}

// applySignal persists the side effects of a validated signal. applied is
// false for kinds that have no handler.
func applySignal(ctx context.Context, st store.Store, owner turnOwner, sig *signal.Signal) (ids []string, applied bool, err error) {
	switch sig.Kind {
	case signal.KindGenerateActions:
		var p signal.ActionsPayload
		if err := sig.Decode(&p); err != nil {
			return nil, false, err
		}
		for _, action := range p.Actions {
			id, err := createDoc(ctx, st, entity.Drafts, owner.UserID, map[string]any{
				"kind":    draftKindAction,
				"payload": action,
				"status":  draftStatusOpen,
				"agentId": owner.AgentID,
				"chatId":  owner.ChatID,
			})
			if err != nil {
				return ids, false, err
			}
			ids = append(ids, id)
		}
		return ids, true, nil

	case signal.KindGenerateAsset:
		var p signal.AssetPayload
		if err := sig.Decode(&p); err != nil {
			return nil, false, err
		}
		id, err := createDoc(ctx, st, entity.Drafts, owner.UserID, map[string]any{
			"kind":    draftKindAsset,
			"payload": p,
			"status":  draftStatusOpen,
			"agentId": owner.AgentID,
			"chatId":  owner.ChatID,
		})
		if err != nil {
			return nil, false, err
		}
		return []string{id}, true, nil

	case signal.KindStoreMeasurement:
		var p signal.MeasurementPayload
		if err := sig.Decode(&p); err != nil {
			return nil, false, err
		}
		fields := map[string]any{
			"dimensions": p.Dimensions,
			"agentId":    owner.AgentID,
			"chatId":     owner.ChatID,
			"source":     measurementSource,
		}
		if p.Notes != "" {
			fields["notes"] = p.Notes
		}
		id, err := createDoc(ctx, st, entity.Measurements, owner.UserID, fields)
		if err != nil {
			return nil, false, err
		}
		return []string{id}, true, nil
	}
	return nil, false, nil
}

func createDoc(ctx context.Context, st store.Store, collection, userID string, fields map[string]any) (string, error) {
	clean, _, err := entity.Sanitize(collection, fields, true)
	if err != nil {
		return "", err
	}
	doc, err := st.Create(ctx, collection, userID, "", clean)
	if err != nil {
		return "", fmt.Errorf("apply signal: create %s: %w", collection, err)
	}
	return doc.ID, nil
}

package docs

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/entity"
	"habitual-api/internal/errorx"
	"habitual-api/internal/store"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type ListDocsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListDocsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListDocsLogic {
	return &ListDocsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListDocsLogic) ListDocs(req *types.ListDocsReq) (resp *types.ListDocsResp, err error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}
	if _, err := entity.Lookup(req.Collection); err != nil {
		return nil, err
	}
	q, err := buildQuery(req)
	if err != nil {
		return nil, err
	}

	found, err := l.svcCtx.Store.Query(l.ctx, req.Collection, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", req.Collection, err)
	}
	items := make([]map[string]any, 0, len(found))
	for _, doc := range found {
		items = append(items, doc.Flatten())
	}
	return &types.ListDocsResp{Items: items}, nil
}

func buildQuery(req *types.ListDocsReq) (store.Query, error) {
	q := store.Query{
		UserID:  req.UserID,
		OrderBy: strings.ToLower(strings.TrimSpace(req.OrderBy)),
		Desc:    req.Desc,
		Limit:   req.Limit,
	}
	switch q.OrderBy {
	case "", store.OrderCreated, store.OrderUpdated:
	default:
		return q, errorx.BadRequest("orderBy must be created or updated")
	}
	if q.Limit < 0 {
		return q, errorx.BadRequest("limit cannot be negative")
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}
	if field := strings.TrimSpace(req.Field); field != "" {
		q.Where = []store.Filter{{Field: field, Value: req.Value}}
	} else if req.Value != "" {
		return q, errorx.BadRequest("value requires field")
	}
	return q, nil
}

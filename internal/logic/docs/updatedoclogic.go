package docs

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/entity"
	"habitual-api/internal/errorx"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type UpdateDocLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewUpdateDocLogic(ctx context.Context, svcCtx *svc.ServiceContext) *UpdateDocLogic {
	return &UpdateDocLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *UpdateDocLogic) UpdateDoc(req *types.UpdateDocReq) (resp *types.DocResp, err error) {
	if _, err := LoadOwned(l.ctx, l.svcCtx.Store, req.Collection, req.ID, req.UserID); err != nil {
		return nil, err
	}
	clean, dropped, err := entity.Sanitize(req.Collection, req.Fields, false)
	if err != nil {
		return nil, err
	}
	if len(clean) == 0 {
		return nil, errorx.BadRequest("no writable fields in update")
	}

	doc, err := l.svcCtx.Store.Update(l.ctx, req.Collection, req.ID, clean)
	if err != nil {
		return nil, err
	}
	return &types.DocResp{Doc: doc.Flatten(), Dropped: dropped}, nil
}

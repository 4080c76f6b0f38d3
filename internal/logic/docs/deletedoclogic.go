package docs

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/entity"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type DeleteDocLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeleteDocLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeleteDocLogic {
	return &DeleteDocLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *DeleteDocLogic) DeleteDoc(req *types.DeleteDocReq) (resp *types.DeleteDocResp, err error) {
	if _, err := LoadOwned(l.ctx, l.svcCtx.Store, req.Collection, req.ID, req.UserID); err != nil {
		return nil, err
	}
	if err := l.svcCtx.Store.Delete(l.ctx, req.Collection, req.ID); err != nil {
		return nil, err
	}
	if req.Collection == entity.Chats {
		if err := l.svcCtx.Transcripts.Drop(l.ctx, req.ID); err != nil {
			l.Errorf("drop transcript %s: %v", req.ID, err)
		}
	}
	return &types.DeleteDocResp{Deleted: true}, nil
}

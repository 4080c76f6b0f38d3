package docs

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/entity"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type CreateDocLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCreateDocLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CreateDocLogic {
	return &CreateDocLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *CreateDocLogic) CreateDoc(req *types.CreateDocReq) (resp *types.DocResp, err error) {
	if err := requireUser(req.UserID); err != nil {
		return nil, err
	}
	clean, dropped, err := entity.Sanitize(req.Collection, req.Fields, true)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		l.Infof("create %s: dropped non-writable fields %v", req.Collection, dropped)
	}

	doc, err := l.svcCtx.Store.Create(l.ctx, req.Collection, req.UserID, req.ID, clean)
	if err != nil {
		return nil, err
	}
	return &types.DocResp{Doc: doc.Flatten(), Dropped: dropped}, nil
}

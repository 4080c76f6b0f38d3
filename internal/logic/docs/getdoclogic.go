package docs

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type GetDocLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetDocLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetDocLogic {
	return &GetDocLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetDocLogic) GetDoc(req *types.GetDocReq) (resp *types.DocResp, err error) {
	doc, err := LoadOwned(l.ctx, l.svcCtx.Store, req.Collection, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}
	return &types.DocResp{Doc: doc.Flatten()}, nil
}

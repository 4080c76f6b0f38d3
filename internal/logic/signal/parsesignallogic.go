package signal

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/logic/outcome"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

type ParseSignalLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewParseSignalLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ParseSignalLogic {
	return &ParseSignalLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ParseSignalLogic) ParseSignal(req *types.ParseSignalReq) (resp *types.ParseSignalResp, err error) {
	parser := l.svcCtx.Parser
	result := outcome.Evaluate(l.svcCtx.Validator, parser.Parse(req.Text))
	return &types.ParseSignalResp{
		Found:  result != nil,
		Prose:  parser.Strip(req.Text),
		Signal: result,
	}, nil
}

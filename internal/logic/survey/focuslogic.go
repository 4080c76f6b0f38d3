package survey

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
	surveypkg "habitual-api/pkg/survey"
)

type FocusLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFocusLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FocusLogic {
	return &FocusLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Focus compares the latest responses of the requester and a partner who
// shared theirs, and picks the weakest dimensions to work on together.
func (l *FocusLogic) Focus(req *types.FocusReq) (resp *types.FocusResp, err error) {
	userID := strings.TrimSpace(req.UserID)
	partnerID := strings.TrimSpace(req.PartnerID)
	switch {
	case userID == "":
		return nil, errorx.BadRequest("userId is required")
	case partnerID == "":
		return nil, errorx.BadRequest("partnerId is required")
	case userID == partnerID:
		return nil, errorx.BadRequest("partnerId must differ from userId")
	}

	mine, err := l.latestResponse(req.SurveyID, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := l.latestResponse(req.SurveyID, partnerID)
	if err != nil {
		return nil, err
	}
	if !sharedWith(theirs, userID) {
		return nil, errorx.Forbidden("partner has not shared this survey")
	}

	a, err := toResponse(mine)
	if err != nil {
		return nil, err
	}
	b, err := toResponse(theirs)
	if err != nil {
		return nil, err
	}
	result, err := surveypkg.Aggregate(a, b, surveypkg.Options{
		FocusCount: req.FocusCount,
		Threshold:  req.Threshold,
	})
	if err != nil {
		return nil, err
	}
	return &types.FocusResp{
		SurveyID:   req.SurveyID,
		Dimensions: toScores(result.Dimensions),
		FocusAreas: toScores(result.FocusAreas),
	}, nil
}

func (l *FocusLogic) latestResponse(surveyID, userID string) (*store.Document, error) {
	found, err := l.svcCtx.Store.Query(l.ctx, entity.SurveyResponses, store.Query{
		UserID:  userID,
		Where:   []store.Filter{{Field: "surveyId", Value: surveyID}},
		OrderBy: store.OrderUpdated,
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("load survey responses: %w", err)
	}
	if len(found) == 0 {
		return nil, errorx.NotFound(fmt.Sprintf("no response to survey %s from %s", surveyID, userID))
	}
	return found[0], nil
}

func sharedWith(doc *store.Document, userID string) bool {
	raw, _ := doc.Data["sharedWith"].([]any)
	for _, v := range raw {
		if s, ok := v.(string); ok && s == userID {
			return true
		}
	}
	return false
}

func toResponse(doc *store.Document) (surveypkg.Response, error) {
	raw, _ := doc.Data["answers"].([]any)
	answers := make([]surveypkg.Answer, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return surveypkg.Response{}, errorx.BadRequest(fmt.Sprintf("survey response %s: answer %d is not an object", doc.ID, i))
		}
		dim, _ := m["dimension"].(string)
		score, ok := m["score"].(float64)
		if !ok {
			return surveypkg.Response{}, errorx.BadRequest(fmt.Sprintf("survey response %s: answer %d has no numeric score", doc.ID, i))
		}
		answers = append(answers, surveypkg.Answer{Dimension: dim, Score: score})
	}
	return surveypkg.Response{UserID: doc.UserID, Answers: answers}, nil
}

func toScores(in []surveypkg.DimensionScore) []types.DimensionScore {
	out := make([]types.DimensionScore, 0, len(in))
	for _, d := range in {
		out = append(out, types.DimensionScore{
			Dimension: d.Dimension,
			Average:   d.Average,
			Gap:       d.Gap,
			ByUser:    d.ByUser,
		})
	}
	return out
}

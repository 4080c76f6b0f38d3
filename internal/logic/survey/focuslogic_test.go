package survey

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitual-api/internal/errorx"
	"habitual-api/internal/svc"
	"habitual-api/internal/svc/svctest"
	"habitual-api/internal/types"
)

func answers(pairs ...any) []any {
	out := make([]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, map[string]any{"dimension": pairs[i], "score": pairs[i+1]})
	}
	return out
}

func seedResponse(t *testing.T, svcCtx *svc.ServiceContext, userID, surveyID string, ans []any, sharedWith ...string) {
	t.Helper()
	shared := make([]any, 0, len(sharedWith))
	for _, s := range sharedWith {
		shared = append(shared, s)
	}
	_, err := svcCtx.Store.Create(context.Background(), "survey-responses", userID, "", map[string]any{
		"surveyId":   surveyID,
		"answers":    ans,
		"sharedWith": shared,
	})
	require.NoError(t, err)
}

func TestFocus(t *testing.T) {
	svcCtx := svctest.New(t, nil)
	seedResponse(t, svcCtx, "alice", "s1", answers("trust", 8, "fun", 4, "money", 6, "chores", 5), "bob")
	seedResponse(t, svcCtx, "bob", "s1", answers("trust", 9, "fun", 6, "money", 2, "chores", 5), "alice")
	seedResponse(t, svcCtx, "bob", "other", answers("trust", 1), "alice")

	resp, err := NewFocusLogic(context.Background(), svcCtx).Focus(&types.FocusReq{
		SurveyID:   "s1",
		UserID:     "alice",
		PartnerID:  "bob",
		FocusCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SurveyID)
	require.Len(t, resp.Dimensions, 4)
	require.Len(t, resp.FocusAreas, 2)

	// money is lowest; fun and chores tie on 5 and the larger gap wins
	assert.Equal(t, "money", resp.FocusAreas[0].Dimension)
	assert.Equal(t, 4.0, resp.FocusAreas[0].Gap)
	assert.Equal(t, "fun", resp.FocusAreas[1].Dimension)
	assert.Equal(t, map[string]float64{"alice": 4, "bob": 6}, resp.FocusAreas[1].ByUser)
}

func TestFocusErrors(t *testing.T) {
	svcCtx := svctest.New(t, nil)
	seedResponse(t, svcCtx, "alice", "s1", answers("trust", 8), "bob")
	seedResponse(t, svcCtx, "bob", "s1", answers("trust", 9))
	seedResponse(t, svcCtx, "carol", "s1", answers("trust", 11), "alice")

	tests := []struct {
		name string
		req  types.FocusReq
		code int
	}{
		{name: "missing user", req: types.FocusReq{SurveyID: "s1", PartnerID: "bob"}, code: http.StatusBadRequest},
		{name: "missing partner", req: types.FocusReq{SurveyID: "s1", UserID: "alice"}, code: http.StatusBadRequest},
		{name: "self", req: types.FocusReq{SurveyID: "s1", UserID: "alice", PartnerID: "alice"}, code: http.StatusBadRequest},
		{name: "not shared", req: types.FocusReq{SurveyID: "s1", UserID: "alice", PartnerID: "bob"}, code: http.StatusForbidden},
		{name: "no response", req: types.FocusReq{SurveyID: "s2", UserID: "alice", PartnerID: "bob"}, code: http.StatusNotFound},
		{name: "score out of range", req: types.FocusReq{SurveyID: "s1", UserID: "alice", PartnerID: "carol"}, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := NewFocusLogic(context.Background(), svcCtx).Focus(&req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errorx.From(err).Code)
		})
	}
}

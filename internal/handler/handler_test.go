package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"

	"habitual-api/internal/errorx"
	agenthandler "habitual-api/internal/handler/agent"
	docshandler "habitual-api/internal/handler/docs"
	signalhandler "habitual-api/internal/handler/signal"
	"habitual-api/internal/svc/svctest"
)

func init() {
	httpx.SetErrorHandlerCtx(errorx.Handler)
}

func serve(h http.HandlerFunc, method, target, body string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if vars != nil {
		req = pathvar.WithVars(req, vars)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestDocHandlers(t *testing.T) {
	svcCtx := svctest.New(t, nil)

	rec := serve(docshandler.CreateDocHandler(svcCtx), http.MethodPost, "/api/docs/goals",
		`{"userId":"u1","id":"g1","fields":{"title":"Run 5k","owner":"x"}}`,
		map[string]string{"collection": "goals"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, []any{"owner"}, body["dropped"])

	rec = serve(docshandler.GetDocHandler(svcCtx), http.MethodGet, "/api/docs/goals/g1?userId=u2", "",
		map[string]string{"collection": "goals", "id": "g1"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, float64(http.StatusForbidden), decode(t, rec)["code"])

	rec = serve(docshandler.ListDocsHandler(svcCtx), http.MethodGet, "/api/docs/goals?userId=u1&limit=5", "",
		map[string]string{"collection": "goals"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Run 5k", items[0].(map[string]any)["title"])

	rec = serve(docshandler.GetDocHandler(svcCtx), http.MethodGet, "/api/docs/goals/g1", "",
		map[string]string{"collection": "goals", "id": "g1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseSignalHandler(t *testing.T) {
	svcCtx := svctest.New(t, nil)
	payload, err := json.Marshal(map[string]string{
		"text": "Done.\nSTORE_MEASUREMENT\n---\n{\"dimensions\":[{\"name\":\"sleep\",\"score\":6}]}",
	})
	require.NoError(t, err)

	rec := serve(signalhandler.ParseSignalHandler(svcCtx), http.MethodPost, "/api/signals/parse", string(payload), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "Done.", body["prose"])
	sig := body["signal"].(map[string]any)
	assert.Equal(t, "STORE_MEASUREMENT", sig["kind"])
	assert.Equal(t, "valid", sig["status"])
}

func TestChatHandler(t *testing.T) {
	llm := &svctest.ScriptedLLM{Replies: []string{"Keep it up."}}
	svcCtx := svctest.New(t, llm)
	agentDoc, err := svcCtx.Store.Create(context.Background(), "agents", "u1", "", map[string]any{"name": "Coach"})
	require.NoError(t, err)

	rec := serve(agenthandler.ChatHandler(svcCtx), http.MethodPost, "/api/agents/"+agentDoc.ID+"/chat",
		`{"userId":"u1","message":"hello"}`, map[string]string{"agentId": agentDoc.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Keep it up.", body["reply"])
	assert.NotEmpty(t, body["chatId"])
	assert.Nil(t, body["signal"])

	rec = serve(agenthandler.ChatHandler(svcCtx), http.MethodPost, "/api/agents/"+agentDoc.ID+"/chat",
		`{"message":"hello"}`, map[string]string{"agentId": agentDoc.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

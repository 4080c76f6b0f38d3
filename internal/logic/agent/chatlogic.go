package agent

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"

	cachekeys "habitual-api/internal/cache"
	"habitual-api/internal/entity"
	"habitual-api/internal/errorx"
	"habitual-api/internal/logic/docs"
	"habitual-api/internal/logic/outcome"
	"habitual-api/internal/store"
	"habitual-api/internal/svc"
	"habitual-api/internal/transcript"
	"habitual-api/internal/types"
	"habitual-api/pkg/journal"
	llmpkg "habitual-api/pkg/llm"
	"habitual-api/pkg/pricing"
	"habitual-api/pkg/prompt"
	"habitual-api/pkg/signal"
)

const promptGoalLimit = 10

var signalDescriptions = map[signal.Kind]string{
	signal.KindGenerateActions:  `propose concrete next actions: {"actions":[{"title","description","priority":"low|medium|high","taskType"}]}`,
	signal.KindGenerateAsset:    `draft a document for the user: {"title","type":"markdown|code|text","content","actionId"}`,
	signal.KindStoreMeasurement: `record self-assessment scores from 1 to 10: {"dimensions":[{"name","score","notes"}],"notes"}`,
}

type ChatLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewChatLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ChatLogic {
	return &ChatLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Chat runs one agent turn: it sends the conversation to the model, applies
// any trailing signal and appends the exchange to the chat document.
func (l *ChatLogic) Chat(req *types.ChatReq) (resp *types.ChatResp, err error) {
	started := time.Now()
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errorx.BadRequest("message is required")
	}
	if l.svcCtx.LLM == nil {
		return nil, errorx.New(http.StatusServiceUnavailable, "agent chat is not configured")
	}

	agent, err := docs.LoadOwned(l.ctx, l.svcCtx.Store, entity.Agents, req.AgentID, req.UserID)
	if err != nil {
		return nil, err
	}
	if archived, _ := agent.Data["archived"].(bool); archived {
		return nil, errorx.Conflict("agent is archived")
	}

	var chat *store.Document
	if req.ChatID != "" {
		release, err := l.lockChat(req.ChatID)
		if err != nil {
			return nil, err
		}
		defer release()

		chat, err = docs.LoadOwned(l.ctx, l.svcCtx.Store, entity.Chats, req.ChatID, req.UserID)
		if err != nil {
			return nil, err
		}
		if chat.String("agentId") != agent.ID {
			return nil, errorx.BadRequest("chat belongs to another agent")
		}
	}

	history, err := l.history(req.ChatID, chat)
	if err != nil {
		return nil, err
	}
	system, digest, err := l.systemPrompt(agent, req.UserID)
	if err != nil {
		return nil, err
	}

	model := agent.String("model")
	if model == "" {
		model = l.svcCtx.Config.ChatModel()
	}
	msgs := make([]llmpkg.Message, 0, len(history)+2)
	msgs = append(msgs, llmpkg.Message{Role: llmpkg.RoleSystem, Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, llmpkg.Message{Role: llmpkg.RoleUser, Content: message})

	completion, err := l.svcCtx.LLM.Chat(l.ctx, &llmpkg.ChatRequest{Model: model, Messages: msgs})
	if err != nil {
		l.Errorf("agent %s chat: %v", agent.ID, err)
		return nil, errorx.New(http.StatusBadGateway, "model request failed")
	}
	rawReply := completion.Text()
	if completion.Model != "" {
		model = completion.Model
	}

	turn := []llmpkg.Message{
		{Role: llmpkg.RoleUser, Content: message},
		{Role: llmpkg.RoleAssistant, Content: rawReply},
	}
	chat, err = l.saveChat(chat, agent.ID, req.UserID, message, turn)
	if err != nil {
		return nil, err
	}
	if err := l.svcCtx.Transcripts.Save(l.ctx, chat.ID, append(append([]llmpkg.Message{}, history...), turn...)); err != nil {
		l.Errorf("save transcript %s: %v", chat.ID, err)
	}

	owner := turnOwner{UserID: req.UserID, AgentID: agent.ID, ChatID: chat.ID}
	result, err := l.handleSignal(owner, rawReply)
	if err != nil {
		return nil, err
	}

	usage := types.Usage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}
	cost, ok := pricing.Cost(model, usage.InputTokens, usage.OutputTokens)
	if !ok {
		l.Slowf("no pricing for model %s", model)
	}

	resp = &types.ChatResp{
		ChatID:   chat.ID,
		Reply:    l.svcCtx.Parser.Strip(rawReply),
		RawReply: rawReply,
		Model:    model,
		Signal:   result,
		Usage:    usage,
		CostUSD:  cost,
	}
	l.journal(owner, digest, message, resp, time.Since(started))
	return resp, nil
}

// lockChat serialises turns on one chat when Redis is configured.
func (l *ChatLogic) lockChat(chatID string) (func(), error) {
	if l.svcCtx.Redis == nil {
		return func() {}, nil
	}
	lock := redis.NewRedisLock(l.svcCtx.Redis, cachekeys.ChatLockKey(chatID))
	lock.SetExpire(int(cachekeys.ChatLockTTL(l.svcCtx.TTL) / time.Second))
	ok, err := lock.AcquireCtx(l.ctx)
	if err != nil {
		return nil, fmt.Errorf("lock chat %s: %w", chatID, err)
	}
	if !ok {
		return nil, errorx.Conflict("chat is busy with another message")
	}
	return func() {
		if _, err := lock.ReleaseCtx(context.Background()); err != nil {
			l.Errorf("release chat lock %s: %v", chatID, err)
		}
	}, nil
}

// history prefers the transcript cache and falls back to the chat document.
func (l *ChatLogic) history(chatID string, chat *store.Document) ([]llmpkg.Message, error) {
	if chat == nil {
		return nil, nil
	}
	cached, ok, err := l.svcCtx.Transcripts.Load(l.ctx, chatID)
	if err != nil {
		l.Errorf("load transcript %s: %v", chatID, err)
	}
	if ok {
		return cached, nil
	}
	return transcript.Window(storedMessages(chat), l.svcCtx.Transcripts.Limit()), nil
}

func (l *ChatLogic) systemPrompt(agent *store.Document, userID string) (string, string, error) {
	goals := stringList(agent.Data["goals"])
	userGoals, err := l.svcCtx.Store.Query(l.ctx, entity.Goals, store.Query{
		UserID:  userID,
		OrderBy: store.OrderUpdated,
		Desc:    true,
		Limit:   promptGoalLimit,
	})
	if err != nil {
		return "", "", fmt.Errorf("load goals: %w", err)
	}
	for _, g := range userGoals {
		if g.String("status") == "done" {
			continue
		}
		if title := g.String("title"); title != "" {
			goals = append(goals, title)
		}
	}

	defs := l.svcCtx.Parser.Registry().Definitions()
	hints := make([]prompt.SignalHint, 0, len(defs))
	for _, def := range defs {
		hints = append(hints, prompt.SignalHint{Keyword: def.Keyword, Description: signalDescriptions[def.Kind]})
	}

	text, digest, err := l.svcCtx.Prompt.RenderAgent(prompt.AgentContext{
		AgentName:    agent.String("name"),
		Instructions: agent.String("instructions"),
		UserID:       userID,
		Goals:        goals,
		Signals:      hints,
		Today:        l.svcCtx.Now().Format("2006-01-02"),
	})
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	return text, digest, nil
}

func (l *ChatLogic) saveChat(chat *store.Document, agentID, userID, message string, turn []llmpkg.Message) (*store.Document, error) {
	at := l.svcCtx.Now().UnixMilli()
	if chat == nil {
		return l.svcCtx.Store.Create(l.ctx, entity.Chats, userID, "", map[string]any{
			"agentId":  agentID,
			"title":    chatTitle(message),
			"messages": encodeMessages(turn, at),
		})
	}
	return l.svcCtx.Store.Update(l.ctx, entity.Chats, chat.ID, map[string]any{
		"messages": appendStored(chat, turn, at),
	})
}

func (l *ChatLogic) handleSignal(owner turnOwner, reply string) (*types.SignalResult, error) {
	sig := l.svcCtx.Parser.Parse(reply)
	result := outcome.Evaluate(l.svcCtx.Validator, sig)
	if result == nil {
		return nil, nil
	}
	if result.Status != outcome.StatusValid {
		l.Infof("agent %s emitted %s signal %s: %s", owner.AgentID, result.Status, result.Kind, result.Error)
		return result, nil
	}

	ids, applied, err := applySignal(l.ctx, l.svcCtx.Store, owner, sig)
	if err != nil {
		return nil, err
	}
	result.CreatedIDs = ids
	if applied {
		result.Status = outcome.StatusApplied
	} else {
		result.Status = outcome.StatusIgnored
	}
	return result, nil
}

func (l *ChatLogic) journal(owner turnOwner, digest, message string, resp *types.ChatResp, took time.Duration) {
	if l.svcCtx.Journal == nil {
		return
	}
	rec := &journal.TurnRecord{
		Timestamp:    l.svcCtx.Now(),
		UserID:       owner.UserID,
		AgentID:      owner.AgentID,
		ChatID:       owner.ChatID,
		Model:        resp.Model,
		PromptDigest: digest,
		UserMessage:  message,
		Reply:        resp.RawReply,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		CostUSD:      resp.CostUSD,
		DurationMS:   took.Milliseconds(),
	}
	if s := resp.Signal; s != nil {
		rec.SignalKind = s.Kind
		rec.SignalStatus = s.Status
		rec.SignalError = s.Error
		rec.SignalRaw = s.Raw
		rec.CreatedIDs = s.CreatedIDs
	}
	if _, err := l.svcCtx.Journal.WriteTurn(rec); err != nil {
		l.Errorf("journal turn for chat %s: %v", owner.ChatID, err)
	}
}

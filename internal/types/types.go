// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type ListDocsReq struct {
	Collection string `path:"collection"`
	UserID     string `form:"userId"`
	Field      string `form:"field,optional"`
	Value      string `form:"value,optional"`
	OrderBy    string `form:"orderBy,optional"`
	Desc       bool   `form:"desc,optional"`
	Limit      int    `form:"limit,optional"`
}

type ListDocsResp struct {
	Items []map[string]any `json:"items"`
}

type CreateDocReq struct {
	Collection string         `path:"collection"`
	UserID     string         `json:"userId"`
	ID         string         `json:"id,optional"`
	Fields     map[string]any `json:"fields"`
}

type GetDocReq struct {
	Collection string `path:"collection"`
	ID         string `path:"id"`
	UserID     string `form:"userId"`
}

type UpdateDocReq struct {
	Collection string         `path:"collection"`
	ID         string         `path:"id"`
	UserID     string         `json:"userId"`
	Fields     map[string]any `json:"fields"`
}

type DeleteDocReq struct {
	Collection string `path:"collection"`
	ID         string `path:"id"`
	UserID     string `form:"userId"`
}

type DocResp struct {
	Doc     map[string]any `json:"doc"`
	Dropped []string       `json:"dropped,omitempty"`
}

type DeleteDocResp struct {
	Deleted bool `json:"deleted"`
}

type ChatReq struct {
	AgentID string `path:"agentId"`
	UserID  string `json:"userId"`
	ChatID  string `json:"chatId,optional"`
	Message string `json:"message"`
}

type SignalResult struct {
	Kind       string   `json:"kind"`
	Status     string   `json:"status"`
	Error      string   `json:"error,omitempty"`
	Raw        string   `json:"raw,omitempty"`
	Data       any      `json:"data,omitempty"`
	CreatedIDs []string `json:"createdIds,omitempty"`
}

type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

type ChatResp struct {
	ChatID   string        `json:"chatId"`
	Reply    string        `json:"reply"`
	RawReply string        `json:"rawReply"`
	Model    string        `json:"model"`
	Signal   *SignalResult `json:"signal,omitempty"`
	Usage    Usage         `json:"usage"`
	CostUSD  float64       `json:"costUsd"`
}

type ParseSignalReq struct {
	Text string `json:"text"`
}

type ParseSignalResp struct {
	Found  bool          `json:"found"`
	Prose  string        `json:"prose"`
	Signal *SignalResult `json:"signal,omitempty"`
}

type FocusReq struct {
	SurveyID   string  `path:"surveyId"`
	UserID     string  `json:"userId"`
	PartnerID  string  `json:"partnerId"`
	FocusCount int     `json:"focusCount,optional"`
	Threshold  float64 `json:"threshold,optional"`
}

type DimensionScore struct {
	Dimension string             `json:"dimension"`
	Average   float64            `json:"average"`
	Gap       float64            `json:"gap"`
	ByUser    map[string]float64 `json:"byUser"`
}

type FocusResp struct {
	SurveyID   string           `json:"surveyId"`
	Dimensions []DimensionScore `json:"dimensions"`
	FocusAreas []DimensionScore `json:"focusAreas"`
}

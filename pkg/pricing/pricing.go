// Package pricing estimates the USD cost of Claude completions.
package pricing

import (
	"sort"
	"strings"
)

// Rate is the list price of a model in USD per million tokens.
type Rate struct {
	InputPerMTok    float64 `json:"input_per_mtok"`
	OutputPerMTok   float64 `json:"output_per_mtok"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}

var rates = map[string]Rate{
	"claude-opus-4-1":   {InputPerMTok: 15, OutputPerMTok: 75, MaxOutputTokens: 32000},
	"claude-opus-4":     {InputPerMTok: 15, OutputPerMTok: 75, MaxOutputTokens: 32000},
	"claude-sonnet-4-5": {InputPerMTok: 3, OutputPerMTok: 15, MaxOutputTokens: 64000},
	"claude-sonnet-4":   {InputPerMTok: 3, OutputPerMTok: 15, MaxOutputTokens: 64000},
	"claude-haiku-4-5":  {InputPerMTok: 1, OutputPerMTok: 5, MaxOutputTokens: 64000},
	"claude-3-5-haiku":  {InputPerMTok: 0.8, OutputPerMTok: 4, MaxOutputTokens: 8192},
	"claude-3-haiku":    {InputPerMTok: 0.25, OutputPerMTok: 1.25, MaxOutputTokens: 4096},
}

// Lookup returns the rate for model. Dated snapshots such as
// "claude-sonnet-4-5-20250929" resolve to the longest matching prefix.
func Lookup(model string) (Rate, bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if r, ok := rates[model]; ok {
		return r, true
	}

	best := ""
	for name := range rates {
		if strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Rate{}, false
	}
	return rates[best], true
}

// Cost returns the USD cost of a call. Unknown models cost zero and report false.
func Cost(model string, inputTokens, outputTokens int) (float64, bool) {
	r, ok := Lookup(model)
	if !ok {
		return 0, false
	}
	return r.Cost(inputTokens, outputTokens), true
}

// Cost applies the rate to a token count.
func (r Rate) Cost(inputTokens, outputTokens int) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	return (float64(inputTokens)*r.InputPerMTok + float64(outputTokens)*r.OutputPerMTok) / 1e6
}

// Models lists the priced model names in sorted order.
func Models() []string {
	out := make([]string, 0, len(rates))
	for name := range rates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Package outcome turns parsed signals into API results.
package outcome

import (
	"habitual-api/internal/types"
	"habitual-api/pkg/signal"
)

// Signal result statuses.
const (
	StatusValid     = "valid"
	StatusApplied   = "applied"
	StatusIgnored   = "ignored"
	StatusInvalid   = "invalid"
	StatusMalformed = "malformed"
)

// Evaluate classifies sig as valid, invalid or malformed. A nil signal
// yields nil.
func Evaluate(v *signal.Validator, sig *signal.Signal) *types.SignalResult {
	if sig == nil {
		return nil
	}
	res := &types.SignalResult{Kind: string(sig.Kind)}
	if sig.Failed() {
		res.Status = StatusMalformed
		res.Error = sig.Error
		res.Raw = sig.Raw
		return res
	}
	res.Data = sig.Data
	if err := v.Validate(sig); err != nil {
		res.Status = StatusInvalid
		res.Error = err.Error()
		return res
	}
	res.Status = StatusValid
	return res
}

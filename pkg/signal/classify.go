package signal

import "strings"

// classify returns the first registered entry whose sentinel header occurs
// in the trimmed text, plus the header offset within the trimmed text.
func (r *Registry) classify(text string) (entry, int, bool) {
	trimmed := strings.TrimSpace(text)
	for _, e := range r.entries {
		if loc := e.pattern.FindStringIndex(trimmed); loc != nil {
			return e, loc[0], true
		}
	}
	return entry{}, -1, false
}

// Classify reports which kind, if any, the response announces.
func (r *Registry) Classify(text string) (Kind, bool) {
	e, _, ok := r.classify(text)
	if !ok {
		return "", false
	}
	return e.def.Kind, true
}

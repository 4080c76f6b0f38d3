package signal

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind tags a structured instruction embedded at the end of an agent reply.
type Kind string

const (
	KindGenerateActions  Kind = "GENERATE_ACTIONS"
	KindGenerateAsset    Kind = "GENERATE_ASSET"
	KindStoreMeasurement Kind = "STORE_MEASUREMENT"
)

var keywordPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Definition binds a kind to the keyword that announces it. The sentinel
// header is the keyword on its own line followed by a line of 3+ dashes.
type Definition struct {
	Kind    Kind
	Keyword string
}

type entry struct {
	def     Definition
	pattern *regexp.Regexp
}

// Registry is the ordered table of known signal kinds. Order is match
// priority. A Registry is immutable once built.
type Registry struct {
	entries []entry
}

// NewRegistry compiles the sentinel pattern of every definition.
func NewRegistry(defs ...Definition) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("signal: registry requires at least one definition")
	}
	seenKinds := make(map[Kind]struct{}, len(defs))
	seenKeywords := make(map[string]struct{}, len(defs))
	entries := make([]entry, 0, len(defs))
	for _, def := range defs {
		if def.Kind == "" {
			return nil, fmt.Errorf("signal: definition for keyword %q has empty kind", def.Keyword)
		}
		if !keywordPattern.MatchString(def.Keyword) {
			return nil, fmt.Errorf("signal: invalid keyword %q", def.Keyword)
		}
		if _, dup := seenKinds[def.Kind]; dup {
			return nil, fmt.Errorf("signal: duplicate kind %s", def.Kind)
		}
		if _, dup := seenKeywords[def.Keyword]; dup {
			return nil, fmt.Errorf("signal: duplicate keyword %s", def.Keyword)
		}
		seenKinds[def.Kind] = struct{}{}
		seenKeywords[def.Keyword] = struct{}{}
		entries = append(entries, entry{
			def:     def,
			pattern: regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(def.Keyword) + `\s*\n-{3,}`),
		})
	}
	return &Registry{entries: entries}, nil
}

// MustNewRegistry is like NewRegistry but panics on invalid definitions.
func MustNewRegistry(defs ...Definition) *Registry {
	reg, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// DefaultDefinitions lists the built-in kinds in priority order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Kind: KindGenerateActions, Keyword: "GENERATE_ACTIONS"},
		{Kind: KindGenerateAsset, Keyword: "GENERATE_ASSET"},
		{Kind: KindStoreMeasurement, Keyword: "STORE_MEASUREMENT"},
	}
}

// DefaultRegistry returns a fresh registry of the built-in kinds.
func DefaultRegistry() *Registry {
	return MustNewRegistry(DefaultDefinitions()...)
}

// Definitions returns a copy of the table in priority order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.def
	}
	return out
}

// Keyword returns the keyword registered for kind.
func (r *Registry) Keyword(kind Kind) (string, bool) {
	for _, e := range r.entries {
		if e.def.Kind == kind {
			return e.def.Keyword, true
		}
	}
	return "", false
}

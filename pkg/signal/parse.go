package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Signal is the outcome of parsing one agent reply. Exactly one of Data or
// Error is meaningful; Raw holds the text that failed to parse.
type Signal struct {
	Kind  Kind   `json:"kind"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`

	// Payload is the extracted JSON span of a successfully parsed signal.
	Payload json.RawMessage `json:"-"`
}

// Failed reports whether the header matched but no payload could be read.
func (s *Signal) Failed() bool {
	return s != nil && s.Error != ""
}

// Decode unmarshals the payload of a successful signal into target.
func (s *Signal) Decode(target any) error {
	if s == nil {
		return errors.New("signal: nil signal")
	}
	if s.Failed() {
		return fmt.Errorf("signal: %s payload unavailable: %s", s.Kind, s.Error)
	}
	if err := json.Unmarshal(s.Payload, target); err != nil {
		return fmt.Errorf("signal: decode %s payload: %w", s.Kind, err)
	}
	return nil
}

// Parser extracts signals using a fixed registry. It holds no mutable state.
type Parser struct {
	registry *Registry
}

// NewParser returns a parser bound to reg; nil selects the default kinds.
func NewParser(reg *Registry) *Parser {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Parser{registry: reg}
}

// Registry exposes the table the parser matches against.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// HasSignal runs classification only.
func (p *Parser) HasSignal(text string) bool {
	_, ok := p.registry.Classify(text)
	return ok
}

// Parse returns nil when no sentinel header is present. Structural and JSON
// failures come back as a Signal with Error set; Parse never panics.
func (p *Parser) Parse(text string) *Signal {
	e, _, ok := p.registry.classify(text)
	if !ok {
		return nil
	}
	kind := e.def.Kind

	span, found := extractObject(splitLines(text))
	if !found {
		return &Signal{
			Kind:  kind,
			Error: fmt.Sprintf("no JSON object found after %s header", e.def.Keyword),
			Raw:   text,
		}
	}

	var data any
	if err := json.Unmarshal([]byte(span), &data); err != nil {
		return &Signal{Kind: kind, Error: err.Error(), Raw: span}
	}
	return &Signal{Kind: kind, Data: data, Payload: json.RawMessage(span)}
}

// Strip returns the conversational part of a reply: the trimmed text before
// the sentinel header, or the whole trimmed text when there is none.
func (p *Parser) Strip(text string) string {
	trimmed := strings.TrimSpace(text)
	_, offset, ok := p.registry.classify(text)
	if !ok {
		return trimmed
	}
	return strings.TrimSpace(trimmed[:offset])
}

var defaultParser = NewParser(nil)

// Parse parses text against the built-in kinds.
func Parse(text string) *Signal { return defaultParser.Parse(text) }

// HasSignal reports whether text announces one of the built-in kinds.
func HasSignal(text string) bool { return defaultParser.HasSignal(text) }

// Classify returns the built-in kind announced by text.
func Classify(text string) (Kind, bool) { return defaultParser.registry.Classify(text) }

// Strip removes a built-in signal block from text.
func Strip(text string) string { return defaultParser.Strip(text) }

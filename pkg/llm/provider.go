package llm

import "strings"

const providerSeparator = "/"

// ResolveModelID maps a configured alias to the model identifier sent on the
// wire. Router-style "anthropic/<model>" names are accepted and unwrapped.
func ResolveModelID(alias string, cfg ModelConfig) string {
	name := strings.TrimSpace(cfg.ModelName)
	if name == "" {
		name = strings.TrimSpace(alias)
	}
	_, model := ParseModelID(name)
	return model
}

// ParseModelID splits an optional provider prefix from a model name.
func ParseModelID(model string) (provider, name string) {
	parts := strings.SplitN(model, providerSeparator, 2)
	if len(parts) != 2 {
		return "", model
	}
	return parts[0], parts[1]
}

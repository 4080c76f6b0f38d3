package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"habitual-api/internal/config"
	"habitual-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Store: %s (%s)", cfg.Store.Driver, presence(strings.TrimSpace(cfg.Store.DSN) != "")),
		fmt.Sprintf("Redis: %s", presence(cfg.HasRedis())),
		fmt.Sprintf("TTL (short/medium/long): %ds / %ds / %ds", cfg.TTL.Short, cfg.TTL.Medium, cfg.TTL.Long),
		fmt.Sprintf("Prompt template: %s", cfg.PromptPath()),
		fmt.Sprintf("Journal: %s", orDisabled(cfg.JournalPath())),
		fmt.Sprintf("Chat model: %s", orDefault(cfg.ChatModel())),
		sectionLine("LLM config", cfg.LLM),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orDisabled(v string) string {
	if v == "" {
		return "disabled"
	}
	return v
}

func orDefault(v string) string {
	if v == "" {
		return "llm default"
	}
	return v
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}

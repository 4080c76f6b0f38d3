package agent

import (
	"strings"
	"unicode/utf8"

	"habitual-api/internal/store"
	llmpkg "habitual-api/pkg/llm"
)

// maxStoredMessages caps the messages kept on a chat document.
const maxStoredMessages = 200

const titleRunes = 60

// storedMessages reads the messages field of a chat document.
func storedMessages(chat *store.Document) []llmpkg.Message {
	if chat == nil {
		return nil
	}
	raw, _ := chat.Data["messages"].([]any)
	msgs := make([]llmpkg.Message, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		if role != llmpkg.RoleUser && role != llmpkg.RoleAssistant {
			continue
		}
		msgs = append(msgs, llmpkg.Message{Role: role, Content: content})
	}
	return msgs
}

func encodeMessages(msgs []llmpkg.Message, at int64) []any {
	out := make([]any, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, map[string]any{"role": m.Role, "content": m.Content, "at": at})
	}
	return out
}

// appendStored adds turn to the raw messages of chat, keeping the newest
// maxStoredMessages entries.
func appendStored(chat *store.Document, turn []llmpkg.Message, at int64) []any {
	var existing []any
	if chat != nil {
		existing, _ = chat.Data["messages"].([]any)
	}
	all := append(append([]any{}, existing...), encodeMessages(turn, at)...)
	if len(all) > maxStoredMessages {
		all = all[len(all)-maxStoredMessages:]
	}
	return all
}

func chatTitle(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if utf8.RuneCountInString(title) <= titleRunes {
		return title
	}
	return string([]rune(title)[:titleRunes]) + "…"
}

func stringList(v any) []string {
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

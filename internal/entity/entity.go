// Package entity defines which collections the API exposes and which
// fields clients may write in each.
package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownCollection = errors.New("entity: unknown collection")
	ErrMissingField      = errors.New("entity: required field missing")
)

// Collection names.
const (
	Agents          = "agents"
	Actions         = "actions"
	Goals           = "goals"
	Projects        = "projects"
	Notes           = "notes"
	Chats           = "chats"
	TimeEntries     = "time-entries"
	Measurements    = "measurements"
	Drafts          = "drafts"
	SurveyResponses = "survey-responses"
)

// Collection describes the writable shape of one collection.
type Collection struct {
	Name     string
	Fields   []string
	Required []string
}

func (c Collection) allows(field string) bool {
	for _, f := range c.Fields {
		if f == field {
			return true
		}
	}
	return false
}

var collections = map[string]Collection{
	Agents: {
		Name:     Agents,
		Fields:   []string{"name", "instructions", "model", "goals", "archived"},
		Required: []string{"name"},
	},
	Actions: {
		Name:     Actions,
		Fields:   []string{"title", "description", "priority", "status", "taskType", "dueAt", "goalId", "projectId", "source"},
		Required: []string{"title"},
	},
	Goals: {
		Name:     Goals,
		Fields:   []string{"title", "description", "status", "targetDate", "dimension"},
		Required: []string{"title"},
	},
	Projects: {
		Name:     Projects,
		Fields:   []string{"title", "description", "status", "goalId"},
		Required: []string{"title"},
	},
	Notes: {
		Name:     Notes,
		Fields:   []string{"title", "body", "tags", "projectId"},
		Required: []string{"body"},
	},
	Chats: {
		Name:     Chats,
		Fields:   []string{"agentId", "title", "messages"},
		Required: []string{"agentId"},
	},
	TimeEntries: {
		Name:     TimeEntries,
		Fields:   []string{"actionId", "startedAt", "endedAt", "minutes", "note"},
		Required: []string{"startedAt"},
	},
	Measurements: {
		Name:     Measurements,
		Fields:   []string{"dimensions", "notes", "agentId", "chatId", "source"},
		Required: []string{"dimensions"},
	},
	Drafts: {
		Name:     Drafts,
		Fields:   []string{"kind", "payload", "status", "agentId", "chatId"},
		Required: []string{"kind", "payload"},
	},
	SurveyResponses: {
		Name:     SurveyResponses,
		Fields:   []string{"surveyId", "answers", "sharedWith"},
		Required: []string{"surveyId", "answers"},
	},
}

// Lookup returns the collection definition for name.
func Lookup(name string) (Collection, error) {
	c, ok := collections[name]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}

// Names lists every exposed collection in sorted order.
func Names() []string {
	out := make([]string, 0, len(collections))
	for name := range collections {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Sanitize keeps only whitelisted fields and reports the keys it dropped in
// sorted order. On create every required field must be present and non-empty;
// on update a required field may be omitted but not blanked.
func Sanitize(collection string, fields map[string]any, create bool) (map[string]any, []string, error) {
	c, err := Lookup(collection)
	if err != nil {
		return nil, nil, err
	}

	clean := make(map[string]any, len(fields))
	var dropped []string
	for k, v := range fields {
		if !c.allows(k) {
			dropped = append(dropped, k)
			continue
		}
		clean[k] = v
	}
	sort.Strings(dropped)

	for _, req := range c.Required {
		v, present := clean[req]
		if !present && !create {
			continue
		}
		if !present || isEmpty(v) {
			return nil, dropped, fmt.Errorf("%w: %s.%s", ErrMissingField, collection, req)
		}
	}
	return clean, dropped, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

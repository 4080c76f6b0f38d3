package entity

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c, err := Lookup(Actions)
	require.NoError(t, err)
	require.Equal(t, Actions, c.Name)

	_, err = Lookup("users")
	require.ErrorIs(t, err, ErrUnknownCollection)
}

func TestNames(t *testing.T) {
	names := Names()
	require.Len(t, names, 10)
	require.True(t, sort.StringsAreSorted(names))
	require.Contains(t, names, SurveyResponses)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		fields     map[string]any
		create     bool
		want       map[string]any
		dropped    []string
		wantErr    error
	}{
		{
			name:       "drops unknown and envelope keys",
			collection: Actions,
			fields:     map[string]any{"title": "Walk", "userId": "spoof", "id": "x", "priority": "high"},
			create:     true,
			want:       map[string]any{"title": "Walk", "priority": "high"},
			dropped:    []string{"id", "userId"},
		},
		{
			name:       "missing required on create",
			collection: Goals,
			fields:     map[string]any{"description": "d"},
			create:     true,
			wantErr:    ErrMissingField,
		},
		{
			name:       "blank required on create",
			collection: Notes,
			fields:     map[string]any{"body": "   "},
			create:     true,
			wantErr:    ErrMissingField,
		},
		{
			name:       "required omitted on update",
			collection: Goals,
			fields:     map[string]any{"status": "done"},
			want:       map[string]any{"status": "done"},
		},
		{
			name:       "required blanked on update",
			collection: Goals,
			fields:     map[string]any{"title": ""},
			wantErr:    ErrMissingField,
		},
		{
			name:       "empty list required",
			collection: SurveyResponses,
			fields:     map[string]any{"surveyId": "s1", "answers": []any{}},
			create:     true,
			wantErr:    ErrMissingField,
		},
		{
			name:       "numbers and bools are not empty",
			collection: TimeEntries,
			fields:     map[string]any{"startedAt": 0, "minutes": 30},
			create:     true,
			want:       map[string]any{"startedAt": 0, "minutes": 30},
		},
		{
			name:       "unknown collection",
			collection: "users",
			fields:     map[string]any{},
			wantErr:    ErrUnknownCollection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped, err := Sanitize(tt.collection, tt.fields, tt.create)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.dropped, dropped)
		})
	}
}

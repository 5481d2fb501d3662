package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aula/core/user"
)

func ids(alerts []Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestDefaultFeed_Fetch(t *testing.T) {
	feed := NewDefaultFeed()

	tests := []struct {
		role string
		want []string
	}{
		{role: "", want: []string{}},
		{role: user.RoleStudent, want: []string{"n1", "n3", "n7"}},
		{role: user.RoleTeacher, want: []string{"n1", "n2", "n7"}},
		{role: user.RoleAdministrative, want: []string{"n1", "n4"}},
		{role: user.RoleExecutive, want: []string{"n1", "n4", "n6"}},
		{role: user.RoleLibrarian, want: []string{"n1", "n5"}},
		{role: "visitante", want: []string{"n1"}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(feed.Fetch(tt.role)))
		})
	}
}

func TestParseCatalog(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    []Alert
		wantErr bool
	}{
		{
			name: "all and roles",
			yaml: `
- {id: a, title: A, body: x, severity: info, audience: all}
- {id: b, title: B, body: y, severity: critical, audience: [docente, directivo], action_label: Ver}
`,
			want: []Alert{
				{ID: "a", Title: "A", Body: "x", Severity: SeverityInfo, Audience: Audience{All: true}},
				{ID: "b", Title: "B", Body: "y", Severity: SeverityCritical, Audience: Audience{Roles: []string{"docente", "directivo"}}, ActionLabel: "Ver"},
			},
		},
		{name: "unknown audience sentinel", yaml: `[{id: a, severity: info, audience: everyone}]`, wantErr: true},
		{name: "mapping audience", yaml: `[{id: a, severity: info, audience: {role: docente}}]`, wantErr: true},
		{name: "bad severity", yaml: `[{id: a, severity: urgent, audience: all}]`, wantErr: true},
		{name: "not yaml list", yaml: `id: a`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCatalog([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAudience_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Alert{ID: "a", Audience: Audience{All: true}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"audience":"all"`)

	data, err = json.Marshal(Alert{ID: "b", Audience: Audience{Roles: []string{"docente"}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"audience":["docente"]`)
}

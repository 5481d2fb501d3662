package comms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/user"
)

var lookup = user.NewLookup([]user.Entry{
	{ID: "u1", Name: "Ana Torres", Role: user.RoleStudent},
	{ID: "u2", Name: "Carlos Méndez", Role: user.RoleTeacher},
	{ID: "u3", Name: "Lucía Romero", Role: user.RoleAdministrative},
	{ID: "u4", Name: "Jorge Salas", Role: user.RoleExecutive},
	{ID: "u6", Name: "Pedro Quispe", Role: user.RoleTeacher},
})

func msg(id int64, from, fromName, text string, to ...string) chat.Message {
	m := chat.Message{ID: id, UserID: from, UserName: fromName, Text: text}
	if len(to) == 2 {
		m.To = &chat.Recipient{ID: to[0], Name: to[1]}
	}
	return m
}

var messages = []chat.Message{
	msg(1, "u2", "Carlos Méndez", "Examen el viernes"),
	msg(2, "u1", "Ana Torres", "Consulta sobre la NOTA", "u2", "Carlos Méndez"),
	msg(3, "u3", "Lucía Romero", "Informe de matrícula", "u4", "Jorge Salas"),
	msg(4, "u1", "Ana Torres", "Certificado", "u3", "Lucía Romero"),
	msg(5, "u4", "Jorge Salas", "Reunión lunes", "u6", "Pedro Quispe"),
	msg(6, "u1", "Ana Torres", "Hola", "u9", "Ex docente"),
}

func ids(msgs []chat.Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []int64
	}{
		{name: "general keeps everything", q: Query{Channel: ChannelGeneral}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "empty channel is general", q: Query{}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "teacher channel", q: Query{Channel: ChannelTeacher}, want: []int64{2, 5}},
		{name: "administrative channel", q: Query{Channel: ChannelAdministrative}, want: []int64{4}},
		{name: "executive channel", q: Query{Channel: ChannelExecutive}, want: []int64{3}},
		{name: "search body case-insensitive", q: Query{Search: "nota"}, want: []int64{2}},
		{name: "search sender name", q: Query{Search: "ANA"}, want: []int64{2, 4, 6}},
		{name: "search recipient name", q: Query{Search: "quispe"}, want: []int64{5}},
		{name: "blank search is a no-op", q: Query{Search: "   "}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "search is trimmed", q: Query{Search: "  lunes "}, want: []int64{5}},
		{name: "to me", q: Query{OnlyToMe: true, ViewerID: "u2"}, want: []int64{2}},
		{name: "to me without viewer is a no-op", q: Query{OnlyToMe: true}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "toggle off ignores viewer", q: Query{ViewerID: "u2"}, want: []int64{1, 2, 3, 4, 5, 6}},
		{name: "filters compose", q: Query{Channel: ChannelTeacher, Search: "ana", OnlyToMe: true, ViewerID: "u2"}, want: []int64{2}},
		{name: "nothing matches", q: Query{Channel: ChannelTeacher, Search: "matrícula"}, want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(messages, tt.q, lookup)))
		})
	}
}

func TestFilter_teacherChannelIsExactSubset(t *testing.T) {
	got := Filter(messages, Query{Channel: ChannelTeacher}, lookup)
	for _, m := range messages {
		entry, ok := lookup.Resolve(func() string {
			if m.To == nil {
				return ""
			}
			return m.To.ID
		}())
		isTeacher := ok && entry.Role == user.RoleTeacher
		assert.Equal(t, isTeacher, containsID(got, m.ID), "message %d", m.ID)
	}
}

func TestFilter_emptyLookup(t *testing.T) {
	assert.Empty(t, Filter(messages, Query{Channel: ChannelTeacher}, nil))
	assert.Len(t, Filter(messages, Query{Channel: ChannelGeneral}, nil), len(messages))
}

func containsID(msgs []chat.Message, id int64) bool {
	for _, m := range msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []chat.Message
		viewer string
		want   Stats
	}{
		{name: "empty", want: Stats{}},
		{name: "no viewer", msgs: messages, want: Stats{Total: 6, Directed: 5, General: 1, ToMe: 0}},
		{name: "viewer u2", msgs: messages, viewer: "u2", want: Stats{Total: 6, Directed: 5, General: 1, ToMe: 1}},
		{name: "viewer without messages", msgs: messages, viewer: "u1", want: Stats{Total: 6, Directed: 5, General: 1, ToMe: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.msgs, tt.viewer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Total, got.Directed+got.General)
			assert.LessOrEqual(t, got.ToMe, got.Directed)
		})
	}
}

func TestDirectedToMeScenario(t *testing.T) {
	msgs := []chat.Message{
		msg(1, "u1", "Ana Torres", "para Carlos", "u2", "Carlos Méndez"),
		msg(2, "u1", "Ana Torres", "para todos"),
	}
	got := Filter(msgs, Query{OnlyToMe: true, ViewerID: "u2"}, lookup)
	assert.Equal(t, []int64{1}, ids(got))
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{in: "", want: ChannelGeneral},
		{in: "general", want: ChannelGeneral},
		{in: " Docente ", want: ChannelTeacher},
		{in: "administrativo", want: ChannelAdministrative},
		{in: "directivo", want: ChannelExecutive},
		{in: "estudiante", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

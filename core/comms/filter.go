package comms

import (
	"strings"

	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/user"
)

// Query selects the messages of a view.
type Query struct {
	Channel  Channel
	Search   string
	OnlyToMe bool
	ViewerID string
}

// Filter applies, in order, the channel, search and directed-to-me filters.
// Surviving messages keep their original order.
func Filter(msgs []chat.Message, q Query, lkp user.Lookup) []chat.Message {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	toMe := q.OnlyToMe && q.ViewerID != ""

	out := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		if !inChannel(m, q.Channel, lkp) {
			continue
		}
		if search != "" && !matches(m, search) {
			continue
		}
		if toMe && !m.IsDirectedTo(q.ViewerID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func inChannel(m chat.Message, ch Channel, lkp user.Lookup) bool {
	if ch.IsGeneral() {
		return true
	}
	if !m.IsDirected() {
		return false
	}
	entry, ok := lkp.Resolve(m.To.ID)
	return ok && entry.Role == string(ch)
}

// matches expects a lower-cased term.
func matches(m chat.Message, term string) bool {
	if strings.Contains(strings.ToLower(m.Text), term) ||
		strings.Contains(strings.ToLower(m.UserName), term) {
		return true
	}
	return m.To != nil && strings.Contains(strings.ToLower(m.To.Name), term)
}

package comms

import "github.com/trezcool/aula/core/chat"

// Stats are computed over the whole message list. Directed + General == Total and ToMe <= Directed.
type Stats struct {
	Total    int `json:"total"`
	Directed int `json:"directed"`
	General  int `json:"general"`
	ToMe     int `json:"to_me"`
}

func ComputeStats(msgs []chat.Message, viewerID string) Stats {
	var st Stats
	st.Total = len(msgs)
	for _, m := range msgs {
		if !m.IsDirected() {
			continue
		}
		st.Directed++
		if m.IsDirectedTo(viewerID) {
			st.ToMe++
		}
	}
	st.General = st.Total - st.Directed
	return st
}

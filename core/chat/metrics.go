package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	backendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aula",
			Subsystem: "chat",
			Name:      "backend_failures_total",
			Help:      "Failed message backend calls that triggered a fallback.",
		},
		[]string{"backend", "op"},
	)
	messagesAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aula",
			Subsystem: "chat",
			Name:      "messages_appended_total",
			Help:      "Messages persisted, by the backend that accepted them.",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(backendFailures, messagesAppended)
}

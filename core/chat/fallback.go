package chat

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
)

var errNoBackend = errors.New("no message backend configured")

// FallbackBackend tries its backends in order and returns the first success.
// Failed attempts are logged and counted, never surfaced while a later backend succeeds.
type FallbackBackend struct {
	backends []Backend
	logger   core.Logger
}

var _ Backend = (*FallbackBackend)(nil)

func NewFallbackBackend(logger core.Logger, backends ...Backend) *FallbackBackend {
	bs := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			bs = append(bs, b)
		}
	}
	return &FallbackBackend{backends: bs, logger: logger}
}

func (b *FallbackBackend) Name() string { return "fallback" }

func (b *FallbackBackend) failed(backend Backend, op string, err error) {
	backendFailures.WithLabelValues(backend.Name(), op).Inc()
	b.logger.Warn(fmt.Sprintf("%s messages backend failed on %s, falling back", backend.Name(), op), err)
}

func (b *FallbackBackend) List(ctx context.Context) ([]Message, error) {
	err := errNoBackend
	for _, backend := range b.backends {
		var msgs []Message
		if msgs, err = backend.List(ctx); err == nil {
			return msgs, nil
		}
		b.failed(backend, "list", err)
	}
	return nil, err
}

func (b *FallbackBackend) Append(ctx context.Context, nm NewMessage) (Message, error) {
	err := errNoBackend
	for _, backend := range b.backends {
		var msg Message
		if msg, err = backend.Append(ctx, nm); err == nil {
			messagesAppended.WithLabelValues(backend.Name()).Inc()
			return msg, nil
		}
		b.failed(backend, "append", err)
	}
	return Message{}, err
}

package chat

import (
	"context"

	"github.com/trezcool/aula/core"
)

// Backend persists the message list.
type Backend interface {
	// Name labels the backend in logs and metrics.
	Name() string
	// List returns every message in insertion order.
	List(ctx context.Context) ([]Message, error)
	// Append persists nm and returns it with its assigned id and timestamps.
	Append(ctx context.Context, nm NewMessage) (Message, error)
}

// NewDefaultBackend stores messages in blobs, behind the remote endpoint when conf.Remote.BaseURL is set.
func NewDefaultBackend(conf *core.Config, blobs core.BlobStore, logger core.Logger) Backend {
	local := NewLocalBackend(blobs, conf.Location, logger)
	if conf.Remote.BaseURL == "" {
		return local
	}
	remote := NewRemoteBackend(conf.Remote.BaseURL, conf.Remote.Timeout, conf.Location)
	return NewFallbackBackend(logger, remote, local)
}

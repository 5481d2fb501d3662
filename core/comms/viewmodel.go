package comms

import (
	"context"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/user"
)

type (
	// MessageStore is the part of chat.Store the view model needs.
	MessageStore interface {
		List(ctx context.Context) []chat.Message
		Append(ctx context.Context, sender chat.Identity, text string, att *chat.Attachment, to *chat.Recipient) (chat.Message, error)
	}

	Directory interface {
		Lookup(ctx context.Context) (user.Lookup, error)
	}
)

// View is what the communication screen renders.
type View struct {
	Messages []chat.Message `json:"messages"`
	Stats    Stats          `json:"stats"`
}

// ViewModel composes the message store and the directory into filtered views.
type ViewModel struct {
	store     MessageStore
	directory Directory
	logger    core.Logger
}

func NewViewModel(store MessageStore, directory Directory, logger core.Logger) *ViewModel {
	return &ViewModel{store: store, directory: directory, logger: logger}
}

// Build loads messages and directory and applies q.
// An unavailable directory degrades to an empty lookup: specific channels then show nothing.
func (vm *ViewModel) Build(ctx context.Context, q Query) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	msgs := vm.store.List(ctx)

	lkp, err := vm.directory.Lookup(ctx)
	if err != nil {
		vm.logger.Warn("directory lookup unavailable", err)
		lkp = user.Lookup{}
	}

	return View{
		Messages: Filter(msgs, q, lkp),
		Stats:    ComputeStats(msgs, q.ViewerID),
	}, nil
}

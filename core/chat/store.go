package chat

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

var (
	ErrBlankMessage     = errors.New("message text is blank")
	ErrNoSender         = errors.New("message has no sender")
	ErrUnknownRecipient = errors.New("recipient not found in directory")
)

// Directory resolves recipient names for directed messages sent by id only.
type Directory interface {
	Lookup(ctx context.Context) (user.Lookup, error)
}

// Store is the message store used by callers: listing never fails and appends are validated.
type Store struct {
	backend   Backend
	directory Directory
	loc       *time.Location
	logger    core.Logger
}

// NewStore returns a Store over backend; directory may be nil when callers always send recipient names.
func NewStore(backend Backend, directory Directory, loc *time.Location, logger core.Logger) *Store {
	return &Store{backend: backend, directory: directory, loc: loc, logger: logger}
}

// List returns every message in insertion order, or the seed when no backend can serve them.
func (s *Store) List(ctx context.Context) []Message {
	msgs, err := s.backend.List(ctx)
	if err != nil {
		s.logger.Warn("listing messages, using seed", err)
		return Seed(s.loc)
	}
	return msgs
}

// Append trims text and persists a message from sender.
// Blank text and a missing sender are rejected before storage is touched.
func (s *Store) Append(ctx context.Context, sender Identity, text string, att *Attachment, to *Recipient) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrBlankMessage
	}
	if strings.TrimSpace(sender.ID) == "" {
		return Message{}, ErrNoSender
	}

	to, err := s.resolveRecipient(ctx, cleanRecipient(to))
	if err != nil {
		return Message{}, err
	}

	return s.backend.Append(ctx, NewMessage{
		Sender:     sender,
		Text:       text,
		Attachment: cleanAttachment(att),
		To:         to,
	})
}

func (s *Store) resolveRecipient(ctx context.Context, to *Recipient) (*Recipient, error) {
	if to == nil || to.Name != "" {
		return to, nil
	}
	if s.directory == nil {
		return nil, ErrUnknownRecipient
	}
	lkp, err := s.directory.Lookup(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "resolving recipient")
	}
	entry, ok := lkp.Resolve(to.ID)
	if !ok {
		return nil, ErrUnknownRecipient
	}
	return &Recipient{ID: entry.ID, Name: entry.Name}, nil
}

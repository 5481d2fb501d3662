package comms

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core/attachment"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/user"
)

var ErrNotStaff = errors.New("recipient is not a staff member")

// Composer holds the compose state of one viewer: text, recipient selection and staged attachment.
type Composer struct {
	store     MessageStore
	directory Directory
	stager    *attachment.Stager

	Text      string
	recipient *chat.Recipient
	staged    *attachment.Handle
}

func NewComposer(store MessageStore, directory Directory, stager *attachment.Stager) *Composer {
	return &Composer{store: store, directory: directory, stager: stager}
}

// SelectRecipient resolves id against the staff directory; an empty id clears the selection.
func (c *Composer) SelectRecipient(ctx context.Context, id string) error {
	if id == "" {
		c.recipient = nil
		return nil
	}
	lkp, err := c.directory.Lookup(ctx)
	if err != nil {
		return errors.Wrap(err, "loading directory")
	}
	entry, ok := lkp.Resolve(id)
	if !ok {
		return chat.ErrUnknownRecipient
	}
	if !user.IsStaffRole(entry.Role) {
		return ErrNotStaff
	}
	c.recipient = &chat.Recipient{ID: entry.ID, Name: entry.Name}
	return nil
}

func (c *Composer) Recipient() *chat.Recipient { return c.recipient }

// Stage acquires a handle on the file at path, replacing (and releasing) any staged one.
// On failure the previous attachment stays staged.
func (c *Composer) Stage(path string) error {
	h, err := c.stager.Stage(path)
	if err != nil {
		return err
	}
	_ = c.staged.Release()
	c.staged = h
	return nil
}

func (c *Composer) Staged() *attachment.Handle { return c.staged }

// Discard releases the staged attachment, if any.
func (c *Composer) Discard() error {
	err := c.staged.Release()
	c.staged = nil
	return err
}

// Send appends the composed message as sender.
// Blank text or an unknown sender is a no-op reported by ok=false.
// On success the text is cleared and the staged attachment released; the recipient stays selected.
func (c *Composer) Send(ctx context.Context, sender chat.Identity) (msg chat.Message, ok bool, err error) {
	var att *chat.Attachment
	if c.staged != nil {
		att = &chat.Attachment{URL: c.staged.URL(), Name: c.staged.Name()}
	}

	msg, err = c.store.Append(ctx, sender, c.Text, att, c.recipient)
	switch errors.Cause(err) {
	case nil:
	case chat.ErrBlankMessage, chat.ErrNoSender:
		return chat.Message{}, false, nil
	default:
		return chat.Message{}, false, err
	}

	c.Text = ""
	if err = c.Discard(); err != nil {
		return msg, true, errors.Wrap(err, "releasing attachment")
	}
	return msg, true, nil
}

// Close releases every resource held by the composer.
func (c *Composer) Close() error {
	return c.Discard()
}

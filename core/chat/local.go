package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
)

// MessagesKey is the blob key holding the whole local message list.
const MessagesKey = "communication.messages"

var nowFunc = time.Now // mockable

// LocalBackend keeps the message list as a single JSON array in a blob store.
// Every append rewrites the whole list.
type LocalBackend struct {
	mutex  sync.Mutex
	blobs  core.BlobStore
	loc    *time.Location
	logger core.Logger
}

var _ Backend = (*LocalBackend)(nil)

func NewLocalBackend(blobs core.BlobStore, loc *time.Location, logger core.Logger) *LocalBackend {
	return &LocalBackend{blobs: blobs, loc: loc, logger: logger}
}

func (b *LocalBackend) Name() string { return "local" }

// read returns the stored list; a missing or corrupt list reads as the seed.
// Any other storage error is returned: Append must not write over a list it could not read.
func (b *LocalBackend) read(ctx context.Context) ([]Message, error) {
	data, err := b.blobs.Get(ctx, MessagesKey)
	if err == core.ErrBlobNotFound {
		return Seed(b.loc), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading messages")
	}

	var msgs []Message
	if err = json.Unmarshal(data, &msgs); err != nil {
		b.logger.Warn("corrupt local messages, using seed", err)
		return Seed(b.loc), nil
	}
	if msgs == nil { // JSON null
		return Seed(b.loc), nil
	}
	return msgs, nil
}

// List never fails: an unreadable list degrades to the seed.
func (b *LocalBackend) List(ctx context.Context) ([]Message, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	msgs, err := b.read(ctx)
	if err != nil {
		b.logger.Warn("reading local messages, using seed", err)
		return Seed(b.loc), nil
	}
	return msgs, nil
}

func (b *LocalBackend) Append(ctx context.Context, nm NewMessage) (Message, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	msgs, err := b.read(ctx)
	if err != nil {
		return Message{}, err
	}

	var maxID int64
	for _, m := range msgs {
		if m.ID > maxID {
			maxID = m.ID
		}
	}

	now := nowFunc()
	msg := Message{
		ID:         maxID + 1,
		UserID:     nm.Sender.ID,
		UserName:   nm.Sender.Name,
		AvatarURL:  nm.Sender.AvatarURL,
		Text:       nm.Text,
		Time:       formatTime(now, b.loc),
		CreatedAt:  now.UTC(),
		Attachment: nm.Attachment,
		To:         nm.To,
	}

	data, err := json.Marshal(append(msgs, msg))
	if err != nil {
		return Message{}, errors.Wrap(err, "encoding messages")
	}
	if err = b.blobs.Put(ctx, MessagesKey, data); err != nil {
		return Message{}, errors.Wrap(err, "writing messages")
	}
	return msg, nil
}

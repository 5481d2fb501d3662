package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

// ViewerKey is the blob key holding the persisted viewer snapshot.
const ViewerKey = "session.viewer"

var ErrNoViewer = errors.New("viewer has no id")

// Context holds the current viewer. Load restores it from the persisted snapshot,
// Logout clears both memory and snapshot.
type Context struct {
	mutex  sync.RWMutex
	blobs  core.BlobStore
	logger core.Logger
	viewer *user.Identity
}

func New(blobs core.BlobStore, logger core.Logger) *Context {
	return &Context{blobs: blobs, logger: logger}
}

// Load restores the persisted viewer; an absent or corrupt snapshot yields no viewer.
func (c *Context) Load(ctx context.Context) *user.Identity {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.viewer = nil
	data, err := c.blobs.Get(ctx, ViewerKey)
	if err != nil {
		if err != core.ErrBlobNotFound {
			c.logger.Warn("reading session", err)
		}
		return nil
	}

	var v user.Identity
	if err = json.Unmarshal(data, &v); err != nil || v.IsZero() {
		c.logger.Warn("corrupt session snapshot, ignoring", err)
		return nil
	}
	c.viewer = &v
	return c.copy()
}

func (c *Context) Login(ctx context.Context, v user.Identity) error {
	if strings.TrimSpace(v.ID) == "" {
		return ErrNoViewer
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err = c.blobs.Put(ctx, ViewerKey, data); err != nil {
		return errors.Wrap(err, "writing session")
	}
	c.viewer = &v
	return nil
}

func (c *Context) Logout(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.viewer = nil
	return errors.Wrap(c.blobs.Delete(ctx, ViewerKey), "deleting session")
}

// Viewer returns a copy of the current viewer, nil when nobody is logged in.
func (c *Context) Viewer() *user.Identity {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.copy()
}

func (c *Context) copy() *user.Identity {
	if c.viewer == nil {
		return nil
	}
	v := *c.viewer
	return &v
}

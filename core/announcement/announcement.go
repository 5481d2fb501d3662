package announcement

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

// AnnouncementsKey is the blob key holding the whole announcement list.
const AnnouncementsKey = "communication.announcements"

var (
	ErrBlankAnnouncement = errors.New("announcement title and body are required")

	nowFunc = time.Now     // mockable
	newID   = uuid.NewUUID // mockable; time-based (v1)
)

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"` // UTC, RFC3339 on the wire
	Author    string    `json:"author"`
	AuthorID  string    `json:"author_id,omitempty"`
}

// CanPost reports whether role may publish announcements.
// The store does not enforce it; callers gate their surfaces with it.
func CanPost(role string) bool {
	return user.IsStaffRole(role)
}

// Store keeps announcements newest-first as a single JSON array.
type Store struct {
	mutex  sync.Mutex
	blobs  core.BlobStore
	logger core.Logger
}

func NewStore(blobs core.BlobStore, logger core.Logger) *Store {
	return &Store{blobs: blobs, logger: logger}
}

func (s *Store) load(ctx context.Context) ([]Announcement, error) {
	data, err := s.blobs.Get(ctx, AnnouncementsKey)
	if err == core.ErrBlobNotFound {
		return s.reseed(ctx)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading announcements")
	}

	var list []Announcement
	if err = json.Unmarshal(data, &list); err != nil || list == nil {
		s.logger.Warn("corrupt announcements, resetting to seed", err)
		return s.reseed(ctx)
	}
	return list, nil
}

func (s *Store) reseed(ctx context.Context) ([]Announcement, error) {
	list := Seed()
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []Announcement) error {
	data, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "encoding announcements")
	}
	return errors.Wrap(s.blobs.Put(ctx, AnnouncementsKey, data), "writing announcements")
}

// List returns the announcements newest-first. The seed is written on first access.
// Storage errors degrade to the seed without failing.
func (s *Store) List(ctx context.Context) []Announcement {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("listing announcements, using seed", err)
		return Seed()
	}
	return list
}

// Create trims title and body and prepends a new announcement by author.
func (s *Store) Create(ctx context.Context, author user.Identity, title, body string) (Announcement, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return Announcement{}, ErrBlankAnnouncement
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return Announcement{}, err
	}

	id, err := newID()
	if err != nil {
		return Announcement{}, errors.Wrap(err, "generating announcement id")
	}
	ann := Announcement{
		ID:        id.String(),
		Title:     title,
		Body:      body,
		CreatedAt: nowFunc().UTC().Truncate(time.Second),
		Author:    author.Name,
		AuthorID:  author.ID,
	}

	list = append([]Announcement{ann}, list...)
	if err = s.save(ctx, list); err != nil {
		return Announcement{}, err
	}
	return ann, nil
}

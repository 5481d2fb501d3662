package blobrepos

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

const usersKey = "directory.users"

// userRecord is the persisted form of user.User; unlike the API shape it keeps the password hash.
type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

func newRecord(u user.User) userRecord {
	return userRecord(u)
}

func (r userRecord) user() user.User {
	return user.User(r)
}

// userRepository stores the whole directory as one JSON document.
type userRepository struct {
	mutex sync.Mutex
	blobs core.BlobStore
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(blobs core.BlobStore) user.Repository {
	return &userRepository{blobs: blobs}
}

// load reads the directory, seeding it on first access.
func (repo *userRepository) load(ctx context.Context) ([]user.User, error) {
	data, err := repo.blobs.Get(ctx, usersKey)
	if err == core.ErrBlobNotFound {
		users := user.SeedUsers()
		if err = repo.save(ctx, users); err != nil {
			return nil, err
		}
		return users, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading users")
	}

	var records []userRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	users := make([]user.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.user())
	}
	return users, nil
}

func (repo *userRepository) save(ctx context.Context, users []user.User) error {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, newRecord(u))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, "encoding users")
	}
	return errors.Wrap(repo.blobs.Put(ctx, usersKey, data), "writing users")
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	users, err := repo.load(ctx)
	if err != nil {
		return err
	}
	excluded := make(map[string]bool, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = true
	}

	for _, usr := range users {
		if excluded[usr.ID] {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	users, err := repo.load(ctx)
	if err != nil {
		return user.User{}, err
	}
	if err = repo.save(ctx, append(users, usr)); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	return repo.load(ctx)
}

func (repo *userRepository) find(ctx context.Context, match func(user.User) bool) (user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	users, err := repo.load(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if match(usr) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.find(ctx, func(u user.User) bool { return u.ID == id })
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.find(ctx, func(u user.User) bool {
		return username != "" && (u.Username == username || u.Email == username)
	})
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	users, err := repo.load(ctx)
	if err != nil {
		return user.User{}, err
	}
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			if err = repo.save(ctx, users); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	users, err := repo.load(ctx)
	if err != nil {
		return err
	}
	deleted := make(map[string]bool, len(ids))
	for _, id := range ids {
		deleted[id] = true
	}
	kept := users[:0]
	for _, usr := range users {
		if !deleted[usr.ID] {
			kept = append(kept, usr)
		}
	}
	return repo.save(ctx, kept)
}

package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/aula/core"
)

// Roles
const (
	RoleStudent        = "estudiante"
	RoleTeacher        = "docente"
	RoleAdministrative = "administrativo"
	RoleExecutive      = "directivo"
	RoleLibrarian      = "bibliotecario"
)

var (
	// StaffRoles may receive directed messages and post announcements.
	StaffRoles = []string{RoleTeacher, RoleAdministrative, RoleExecutive}
	AllRoles   = []string{RoleStudent, RoleTeacher, RoleAdministrative, RoleExecutive, RoleLibrarian}

	Roles = []Role{
		{Name: "Estudiante", Value: RoleStudent},
		{Name: "Docente", Value: RoleTeacher},
		{Name: "Administrativo", Value: RoleAdministrative},
		{Name: "Directivo", Value: RoleExecutive},
		{Name: "Bibliotecario", Value: RoleLibrarian},
	}

	errNoPassword = errors.New("user has no password set")
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	if len(u.PasswordHash) == 0 {
		return errNoPassword
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStaff() bool { return IsStaffRole(u.Role) }

// Entry returns the read-only directory view of the user.
func (u *User) Entry() Entry {
	return Entry{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Identity is what other modules know about the author of a message or an announcement.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Role: u.Role, AvatarURL: u.AvatarURL}
}

// Entry is a directory entry: id, display name and role.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Lookup resolves directory entries by user id.
type Lookup map[string]Entry

func NewLookup(entries []Entry) Lookup {
	lkp := make(Lookup, len(entries))
	for _, e := range entries {
		lkp[e.ID] = e
	}
	return lkp
}

func (l Lookup) Resolve(id string) (Entry, bool) {
	if id == "" || l == nil {
		return Entry{}, false
	}
	e, ok := l[id]
	return e, ok
}

// Staff returns the staff entries of the lookup sorted by name.
func (l Lookup) Staff() []Entry {
	staff := make([]Entry, 0, len(l))
	for _, e := range l {
		if IsStaffRole(e.Role) {
			staff = append(staff, e)
		}
	}
	sort.Slice(staff, func(i, j int) bool {
		if staff[i].Name == staff[j].Name {
			return staff[i].ID < staff[j].ID
		}
		return staff[i].Name < staff[j].Name
	})
	return staff
}

// Identity of the current viewer or of an author.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func (i Identity) IsZero() bool { return i.ID == "" }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Username        string `json:"username" validate:"required,min=4,alphanum_"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"required,role"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.AvatarURL = strings.TrimSpace(nu.AvatarURL)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Role            string `json:"role" validate:"omitempty,role"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(ctx context.Context, validate *validator.Validate, origUsr User, svc *Service) error {
	if name := core.CleanString(uu.Name); name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if role := core.CleanString(uu.Role, true /* lower */); role != "" {
		uu.Role = role
	} else {
		uu.Role = origUsr.Role
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, origUsr.Username, uu.Email, origUsr)
}

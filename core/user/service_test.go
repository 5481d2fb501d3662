package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
	"github.com/trezcool/aula/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	repo := blobrepos.NewUserRepository(testutil.NewBlobStore())
	return user.NewService(repo), repo
}

func TestService_Lookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	lkp, err := svc.Lookup(ctx)
	require.NoError(t, err)
	assert.Len(t, lkp, len(user.SeedUsers()))

	entry, ok := lkp.Resolve("u2")
	assert.True(t, ok)
	assert.Equal(t, user.Entry{ID: "u2", Name: "Carlos Méndez", Role: user.RoleTeacher}, entry)

	_, ok = lkp.Resolve("nobody")
	assert.False(t, ok)
	_, ok = lkp.Resolve("")
	assert.False(t, ok)
}

func TestService_Staff(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	staff, err := svc.Staff(ctx)
	require.NoError(t, err)

	var names []string
	for _, e := range staff {
		assert.True(t, user.IsStaffRole(e.Role), e.Role)
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Carlos Méndez", "Jorge Salas", "Lucía Romero", "Pedro Quispe"}, names)
}

func TestNewUser_Validate(t *testing.T) {
	ctx := context.Background()
	svc, repo := setup(t)
	validate, _ := testutil.NewValidator()
	user.LoadCommonPasswords(nil)

	testutil.CreateUser(t, repo, "x1", "Existing", "existing", "existing@aula.edu.pe", "", user.RoleStudent, true)

	valid := func() user.NewUser {
		return user.NewUser{
			Name:            " Rosa Vega ",
			Username:        " RVega ",
			Email:           "RVEGA@aula.edu.pe",
			Role:            "Docente",
			Password:        "Zq9#vK2!pL",
			PasswordConfirm: "Zq9#vK2!pL",
		}
	}

	tests := []struct {
		name    string
		mutate  func(nu *user.NewUser)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(nu *user.NewUser) {}},
		{name: "no name", mutate: func(nu *user.NewUser) { nu.Name = "  " }, wantErr: true},
		{name: "short username", mutate: func(nu *user.NewUser) { nu.Username = "rv" }, wantErr: true},
		{name: "username with dots", mutate: func(nu *user.NewUser) { nu.Username = "r.vega" }, wantErr: true},
		{name: "bad email", mutate: func(nu *user.NewUser) { nu.Email = "lol" }, wantErr: true},
		{name: "unknown role", mutate: func(nu *user.NewUser) { nu.Role = "rector" }, wantErr: true},
		{name: "short password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "a1!", "a1!" }, wantErr: true},
		{name: "numeric password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "12345678901", "12345678901" }, wantErr: true},
		{name: "common password", mutate: func(nu *user.NewUser) { nu.Password, nu.PasswordConfirm = "password123", "password123" }, wantErr: true},
		{name: "password mismatch", mutate: func(nu *user.NewUser) { nu.PasswordConfirm = "Zq9#vK2!pX" }, wantErr: true},
		{name: "username taken", mutate: func(nu *user.NewUser) { nu.Username = "existing" }, wantErr: true, field: "username"},
		{name: "email taken", mutate: func(nu *user.NewUser) { nu.Email = "existing@aula.edu.pe" }, wantErr: true, field: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := valid()
			tt.mutate(&nu)
			err := nu.Validate(ctx, validate, svc)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Rosa Vega", nu.Name)
				assert.Equal(t, "rvega", nu.Username)
				assert.Equal(t, "rvega@aula.edu.pe", nu.Email)
				assert.Equal(t, user.RoleTeacher, nu.Role)
				return
			}
			require.Error(t, err)
			if tt.field != "" {
				vErr, ok := err.(*core.ValidationError)
				require.True(t, ok)
				assert.Equal(t, tt.field, vErr.Fields[0].Field)
			}
		})
	}
}

func TestService_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	usr, err := svc.Create(ctx, user.NewUser{
		Name:     "Rosa Vega",
		Username: "rvega",
		Email:    "rvega@aula.edu.pe",
		Role:     user.RoleAdministrative,
		Password: "Zq9#vK2!pL",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsStaff())

	got, err := svc.GetByUsernameOrEmail(ctx, " RVEGA@aula.edu.pe ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.NoError(t, got.CheckPassword("Zq9#vK2!pL"))
	assert.Error(t, got.CheckPassword("wrong"))

	staff, err := svc.Staff(ctx)
	require.NoError(t, err)
	assert.Contains(t, staff, user.Entry{ID: usr.ID, Name: "Rosa Vega", Role: user.RoleAdministrative})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	inactive := false
	usr, err := svc.Update(ctx, "u5", user.UpdateUser{Name: "Marta D.", Email: "mdiaz@aula.edu.pe", Role: user.RoleLibrarian, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Marta D.", usr.Name)
	assert.False(t, usr.IsActive)

	_, err = svc.Update(ctx, "nobody", user.UpdateUser{})
	assert.Equal(t, user.ErrNotFound, err)

	require.NoError(t, svc.Delete(ctx, "u5", "u6"))
	_, err = svc.GetByID(ctx, "u5")
	assert.Equal(t, user.ErrNotFound, err)

	all, err := svc.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(user.SeedUsers())-2)
}

func TestSeedUsers_noPassword(t *testing.T) {
	for _, usr := range user.SeedUsers() {
		assert.Error(t, usr.CheckPassword(""), usr.ID)
	}
}

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
	testutil "github.com/trezcool/aula/tests"
)

const testPassword = "Zq9#vK2!pL"

func setup(t *testing.T) (*commandLine, user.Repository, *bytes.Buffer) {
	t.Helper()
	user.LoadCommonPasswords(nil)

	usrRepo := blobrepos.NewUserRepository(testutil.NewBlobStore())
	validate, _ := testutil.NewValidator()
	out := new(bytes.Buffer)

	// start CLI
	return &commandLine{
		usrSvc:   user.NewService(usrRepo),
		validate: validate,
		out:      out,
	}, usrRepo, out
}

type cliTest struct {
	name     string
	args     []string // without program name
	pwds     []string // answers to the password prompts
	wantErr  error
	wantType interface{}
}

// mockPasswords answers the password prompts with pwds, then with empty input.
func mockPasswords(pwds []string) {
	i := 0
	readPasswordFunc = func(int) ([]byte, error) {
		if i >= len(pwds) {
			return nil, nil
		}
		i++
		return []byte(pwds[i-1]), nil
	}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, errors.Cause(err))
	case tt.wantType != nil:
		assert.IsType(t, tt.wantType, errors.Cause(err))
	default:
		assert.NoError(t, err)
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, usrRepo, _ := setup(t)

	args := func(uname, name, role string) []string {
		return []string{"adduser", "-username", uname, "-name", name, "-role", role, "-email", uname + "@aula.edu.pe"}
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing role", args: []string{"adduser", "-username", "rvega", "-name", "Rosa Vega"}, wantErr: errHelp},
		{name: "no password", args: args("rvega", "Rosa Vega", user.RoleTeacher), wantErr: errHelp},
		{
			name: "password mismatch", args: args("rvega", "Rosa Vega", user.RoleTeacher),
			pwds: []string{testPassword, "nope"}, wantType: validator.ValidationErrors{},
		},
		{
			name: "numeric password", args: args("rvega", "Rosa Vega", user.RoleTeacher),
			pwds: []string{"12345678", "12345678"}, wantType: validator.ValidationErrors{},
		},
		{
			name: "common password", args: args("rvega", "Rosa Vega", user.RoleTeacher),
			pwds: []string{"password123", "password123"}, wantType: validator.ValidationErrors{},
		},
		{
			name: "unknown role", args: args("rvega", "Rosa Vega", "rector"),
			pwds: []string{testPassword, testPassword}, wantType: validator.ValidationErrors{},
		},
		{
			name: "username taken", args: args("ATorres", "Ana T", user.RoleStudent),
			pwds: []string{testPassword, testPassword}, wantType: &core.ValidationError{},
		},
		{name: "created", args: args("RVega", " Rosa Vega ", user.RoleTeacher), pwds: []string{testPassword, testPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPasswords(tt.pwds)
			err := cli.run(append([]string{"admin"}, tt.args...))
			checkErr(t, tt, err)
		})
	}

	usr, err := usrRepo.GetUserByUsernameOrEmail(context.Background(), "rvega")
	require.NoError(t, err)
	assert.Equal(t, "Rosa Vega", usr.Name)
	assert.Equal(t, user.RoleTeacher, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword(testPassword))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, usrRepo, _ := setup(t)
	usr := testutil.CreateUser(t, usrRepo, "u9", "Rosa Vega", "rvega", "rvega@aula.edu.pe", testPassword, user.RoleTeacher, true)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "rvega"}, wantErr: errHelp},
		{
			name: "passwords do not match", args: []string{"resetpassword", "-username", "rvega"},
			pwds: []string{"N3w!Secr3t", "N3w!Secr3"}, wantErr: errPasswordMismatch,
		},
		{
			name: "user not found", args: []string{"resetpassword", "-username", "lol"},
			pwds: []string{"N3w!Secr3t", "N3w!Secr3t"}, wantErr: user.ErrNotFound,
		},
		{
			name: "too short", args: []string{"resetpassword", "-username", "rvega"},
			pwds: []string{"Ab1!", "Ab1!"}, wantType: validator.ValidationErrors{},
		},
		{name: "reset with username", args: []string{"resetpassword", "-username", "rvega"}, pwds: []string{"N3w!Secr3t", "N3w!Secr3t"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", "RVega@aula.edu.pe"}, pwds: []string{"0ther#Pass9", "0ther#Pass9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPasswords(tt.pwds)
			err := cli.run(append([]string{"admin"}, tt.args...))
			checkErr(t, tt, err)
			if err != nil {
				return
			}

			refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
			require.NoError(t, err)
			assert.False(t, bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash), "failed to update new password")
			assert.NoError(t, refreshedUsr.CheckPassword(tt.pwds[0]))
			assert.Equal(t, usr.Name, refreshedUsr.Name)
			assert.Equal(t, usr.Email, refreshedUsr.Email)
		})
	}
}

func Test_commandLine_deactivate(t *testing.T) {
	cli, usrRepo, _ := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"deactivate"}, wantErr: errHelp},
		{name: "user not found", args: []string{"deactivate", "-username", "lol"}, wantErr: user.ErrNotFound},
		{name: "deactivated", args: []string{"deactivate", "-username", "mdiaz"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			checkErr(t, tt, err)
		})
	}

	usr, err := usrRepo.GetUserByID(context.Background(), "u5")
	require.NoError(t, err)
	assert.False(t, usr.IsActive)
}

func Test_commandLine_listUsers(t *testing.T) {
	cli, _, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "listusers"}))
	assert.Contains(t, out.String(), "USERNAME")
	for _, usr := range user.SeedUsers() {
		assert.Contains(t, out.String(), usr.Username)
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/attachment"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/notification"
	"github.com/trezcool/aula/core/session"
	"github.com/trezcool/aula/core/user"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
	testutil "github.com/trezcool/aula/tests"
)

type portal struct {
	*commandLine
	blobs   core.BlobStore
	usrRepo user.Repository
	buf     *bytes.Buffer
}

// newPortal builds a CLI over blobs; a nil blobs starts from empty storage.
func newPortal(t *testing.T, blobs core.BlobStore) portal {
	t.Helper()
	if blobs == nil {
		blobs = testutil.NewBlobStore()
	}
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)

	usrRepo := blobrepos.NewUserRepository(blobs)
	usrSvc := user.NewService(usrRepo)
	messages := chat.NewStore(chat.NewDefaultBackend(conf, blobs, logger), usrSvc, conf.Location, logger)
	buf := new(bytes.Buffer)

	cli := &commandLine{
		usrSvc:        usrSvc,
		session:       session.New(blobs, logger),
		messages:      messages,
		viewModel:     comms.NewViewModel(messages, usrSvc, logger),
		announcements: announcement.NewStore(blobs, logger),
		feed:          notification.NewDefaultFeed(),
		stager:        attachment.NewStager(0),
		logger:        logger,
		loc:           time.UTC,
		out:           buf,
	}
	return portal{commandLine: cli, blobs: blobs, usrRepo: usrRepo, buf: buf}
}

// exec runs args (without program name) and returns the output.
func (p portal) exec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	p.buf.Reset()
	err := p.run(context.Background(), append([]string{"portal"}, args...))
	return p.buf.String(), err
}

func (p portal) mustExec(t *testing.T, args ...string) string {
	t.Helper()
	out, err := p.exec(t, args...)
	require.NoError(t, err, "portal %v", args)
	return out
}

func Test_commandLine_session(t *testing.T) {
	p := newPortal(t, nil)
	testutil.CreateUser(t, p.usrRepo, "u9", "Luis Paz", "lpaz", "lpaz@aula.edu.pe", "", user.RoleStudent, false)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no command", wantErr: errHelp},
		{name: "whoami before login", args: []string{"whoami"}, wantErr: errNotLoggedIn},
		{name: "messages before login", args: []string{"messages"}, wantErr: errNotLoggedIn},
		{name: "login without user", args: []string{"login"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"login", "-user", "ghost"}, wantErr: user.ErrNotFound},
		{name: "deactivated user", args: []string{"login", "-user", "lpaz"}, wantErr: errInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.exec(t, tt.args...)
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}

	t.Run("login by id", func(t *testing.T) {
		assert.Contains(t, p.mustExec(t, "login", "-user", "u1"), "Ana Torres")
		assert.Equal(t, "Ana Torres (estudiante) [u1]\n", p.mustExec(t, "whoami"))
	})

	t.Run("session survives a restart", func(t *testing.T) {
		restarted := newPortal(t, p.blobs)
		assert.Equal(t, "Ana Torres (estudiante) [u1]\n", restarted.mustExec(t, "whoami"))

		_, err := restarted.exec(t, "lol")
		assert.Equal(t, errHelp, err)
	})

	t.Run("login by username", func(t *testing.T) {
		p.mustExec(t, "login", "-user", "CMendez")
		assert.Equal(t, "Carlos Méndez (docente) [u2]\n", p.mustExec(t, "whoami"))
	})

	t.Run("logout", func(t *testing.T) {
		p.mustExec(t, "logout")
		_, err := p.exec(t, "whoami")
		assert.Equal(t, errNotLoggedIn, err)

		_, err = newPortal(t, p.blobs).exec(t, "whoami")
		assert.Equal(t, errNotLoggedIn, err)
	})
}

func Test_commandLine_messages(t *testing.T) {
	p := newPortal(t, nil)
	p.mustExec(t, "login", "-user", "u2")

	out := p.mustExec(t, "messages")
	for _, id := range []string{"#1 ", "#2 ", "#3 ", "#4 "} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "13:15 Carlos Méndez: Buenos días.")
	assert.Contains(t, out, "Ana Torres -> Carlos Méndez")
	assert.Contains(t, out, "[adjunto] matricula.pdf")

	out = p.mustExec(t, "messages", "-channel", "directivo")
	assert.Contains(t, out, "#3 ")
	assert.NotContains(t, out, "#1 ")

	out = p.mustExec(t, "messages", "-mine")
	assert.Contains(t, out, "#2 ")
	assert.NotContains(t, out, "#3 ")

	out = p.mustExec(t, "messages", "-search", "REUNIÓN")
	assert.Contains(t, out, "#4 ")
	assert.NotContains(t, out, "#2 ")

	assert.Equal(t, "no messages\n", p.mustExec(t, "messages", "-search", "nada que ver"))

	_, err := p.exec(t, "messages", "-channel", "biblioteca")
	assert.True(t, core.IsValidation(err))

	assert.Equal(t, "total: 4  directed: 2  general: 2  to me: 1\n", p.mustExec(t, "stats"))
}

func Test_commandLine_send(t *testing.T) {
	ctx := context.Background()
	p := newPortal(t, nil)
	require.NoError(t, p.blobs.Put(ctx, chat.MessagesKey, []byte("[]")))
	p.mustExec(t, "login", "-user", "u1")

	t.Run("first message", func(t *testing.T) {
		out := p.mustExec(t, "send", "Hola")
		assert.Contains(t, out, "#1 ")
		assert.Contains(t, out, "Ana Torres: Hola")
	})

	t.Run("blank text is not sent", func(t *testing.T) {
		_, err := p.exec(t, "send")
		assert.Equal(t, errHelp, err)
		assert.Equal(t, "nothing sent: message is blank\n", p.mustExec(t, "send", "   "))
	})

	t.Run("directed to staff", func(t *testing.T) {
		out := p.mustExec(t, "send", "-to", "u6", "Consulta", "sobre", "notas")
		assert.Contains(t, out, "#2 ")
		assert.Contains(t, out, "Ana Torres -> Pedro Quispe: Consulta sobre notas")
	})

	t.Run("directed to non staff", func(t *testing.T) {
		_, err := p.exec(t, "send", "-to", "u5", "Hola")
		assert.Equal(t, comms.ErrNotStaff, errors.Cause(err))

		_, err = p.exec(t, "send", "-to", "ghost", "Hola")
		assert.Equal(t, chat.ErrUnknownRecipient, errors.Cause(err))
	})

	t.Run("attachment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "horario.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

		out := p.mustExec(t, "send", "-attach", path, "Mi", "horario")
		assert.Contains(t, out, "#3 ")
		assert.Contains(t, out, "[adjunto] horario.pdf <file://")
		assert.Equal(t, 0, p.stager.Open())
	})

	t.Run("unreadable attachment does not block the text", func(t *testing.T) {
		out := p.mustExec(t, "send", "-attach", filepath.Join(t.TempDir(), "missing.pdf"), "Sin", "adjunto")
		assert.Contains(t, out, "warning: attachment not sent")
		assert.Contains(t, out, "#4 ")
		assert.NotContains(t, out, "[adjunto]")
	})

	t.Run("recipient sees it", func(t *testing.T) {
		p.mustExec(t, "login", "-user", "u6")
		out := p.mustExec(t, "messages", "-mine")
		assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\n")))
		assert.Contains(t, out, "Consulta sobre notas")
		assert.Equal(t, "total: 4  directed: 1  general: 3  to me: 1\n", p.mustExec(t, "stats"))
	})
}

func Test_commandLine_announcements(t *testing.T) {
	p := newPortal(t, nil)
	p.mustExec(t, "login", "-user", "u1")

	out := p.mustExec(t, "announcements")
	assert.Equal(t, 4, bytes.Count([]byte(out), []byte("\n")))

	_, err := p.exec(t, "announce", "-title", "Aviso", "-body", "Texto")
	assert.Equal(t, errCannotPost, err)

	p.mustExec(t, "login", "-user", "u3")
	_, err = p.exec(t, "announce", "-title", "Aviso")
	assert.Equal(t, announcement.ErrBlankAnnouncement, errors.Cause(err))

	out = p.mustExec(t, "announce", "-title", "Cierre de matrícula", "-body", "La matrícula cierra el viernes.")
	assert.Contains(t, out, "Cierre de matrícula (Lucía Romero)")

	list := p.announcements.List(context.Background())
	require.Len(t, list, 3)
	assert.Equal(t, "Cierre de matrícula", list[0].Title)
	assert.Equal(t, "u3", list[0].AuthorID)
}

func Test_commandLine_notificationsAndStaff(t *testing.T) {
	p := newPortal(t, nil)

	p.mustExec(t, "login", "-user", "u5")
	out := p.mustExec(t, "notifications")
	assert.Contains(t, out, "(info) Mantenimiento programado")
	assert.Contains(t, out, "(warning) Devoluciones vencidas")
	assert.NotContains(t, out, "Pago pendiente")

	p.mustExec(t, "login", "-user", "u1")
	out = p.mustExec(t, "notifications")
	assert.Contains(t, out, "(critical) Pago pendiente")
	assert.Contains(t, out, "-> Ver estado de cuenta")

	out = p.mustExec(t, "staff")
	for _, name := range []string{"Carlos Méndez", "Jorge Salas", "Lucía Romero", "Pedro Quispe"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "Ana Torres")
	assert.NotContains(t, out, "Marta Díaz")
}

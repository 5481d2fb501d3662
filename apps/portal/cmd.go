package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/attachment"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/notification"
	"github.com/trezcool/aula/core/session"
	"github.com/trezcool/aula/core/user"
)

var (
	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in, run: portal login -user ID")
	errInactive    = errors.New("account deactivated")
	errCannotPost  = errors.New("your role may not post announcements")
)

type commandLine struct {
	usrSvc        *user.Service
	session       *session.Context
	messages      *chat.Store
	viewModel     *comms.ViewModel
	announcements *announcement.Store
	feed          *notification.Feed
	stager        *attachment.Stager
	logger        core.Logger
	loc           *time.Location
	out           io.Writer
}

func (cli *commandLine) location() *time.Location {
	if cli.loc == nil {
		return time.UTC
	}
	return cli.loc
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  login -user ID|USERNAME - start a session")
	_, _ = fmt.Fprintln(cli.out, "  logout - end the session")
	_, _ = fmt.Fprintln(cli.out, "  whoami - print the current viewer")
	_, _ = fmt.Fprintln(cli.out, "  messages [-channel CHANNEL] [-search TEXT] [-mine] - list messages")
	_, _ = fmt.Fprintln(cli.out, "  stats - print message counters")
	_, _ = fmt.Fprintln(cli.out, "  send [-to ID] [-attach PATH] TEXT... - send a message")
	_, _ = fmt.Fprintln(cli.out, "  staff - list the staff who may receive directed messages")
	_, _ = fmt.Fprintln(cli.out, "  announcements - list announcements")
	_, _ = fmt.Fprintln(cli.out, "  announce -title TITLE -body BODY - post an announcement (staff only)")
	_, _ = fmt.Fprintln(cli.out, "  notifications - list the alerts for your role")
}

// viewer returns the logged in viewer or errNotLoggedIn.
func (cli *commandLine) viewer() (user.Identity, error) {
	v := cli.session.Viewer()
	if v == nil {
		return user.Identity{}, errNotLoggedIn
	}
	return *v, nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	cli.session.Load(ctx)

	cmd, cmdArgs := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(ctx, cmdArgs)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	}

	v, err := cli.viewer()
	if err != nil {
		return err
	}
	switch cmd {
	case "messages":
		return cli.listMessages(ctx, v, cmdArgs)
	case "stats":
		return cli.stats(ctx, v)
	case "send":
		return cli.send(ctx, v, cmdArgs)
	case "staff":
		return cli.staff(ctx)
	case "announcements":
		return cli.listAnnouncements(ctx)
	case "announce":
		return cli.announce(ctx, v, cmdArgs)
	case "notifications":
		return cli.notifications(v)
	default:
		cli.printUsage()
		return errHelp
	}
}

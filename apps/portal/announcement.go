package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/user"
)

func (cli *commandLine) printAnnouncement(ann announcement.Announcement) {
	_, _ = fmt.Fprintf(cli.out, "[%s] %s (%s)\n    %s\n",
		ann.CreatedAt.In(cli.location()).Format("2006-01-02 15:04"), ann.Title, ann.Author, ann.Body)
}

func (cli *commandLine) listAnnouncements(ctx context.Context) error {
	for _, ann := range cli.announcements.List(ctx) {
		cli.printAnnouncement(ann)
	}
	return nil
}

func (cli *commandLine) announce(ctx context.Context, v user.Identity, args []string) error {
	announceCmd := flag.NewFlagSet("announce", flag.ExitOnError)
	title := announceCmd.String("title", "", "The announcement title.")
	body := announceCmd.String("body", "", "The announcement body.")
	if err := announceCmd.Parse(args); err != nil {
		return err
	}
	if !announcement.CanPost(v.Role) {
		return errCannotPost
	}

	ann, err := cli.announcements.Create(ctx, v, *title, *body)
	if err != nil {
		return err
	}
	cli.printAnnouncement(ann)
	return nil
}

func (cli *commandLine) notifications(v user.Identity) error {
	alerts := cli.feed.Fetch(v.Role)
	if len(alerts) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no notifications")
	}
	for _, a := range alerts {
		_, _ = fmt.Fprintf(cli.out, "(%s) %s: %s\n", a.Severity, a.Title, a.Body)
		if a.ActionLabel != "" {
			_, _ = fmt.Fprintf(cli.out, "    -> %s\n", a.ActionLabel)
		}
	}
	return nil
}

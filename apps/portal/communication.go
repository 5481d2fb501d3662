package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/user"
)

func (cli *commandLine) printMessage(m chat.Message) {
	var to string
	if m.IsDirected() {
		to = " -> " + m.To.Name
	}
	_, _ = fmt.Fprintf(cli.out, "#%d %s %s%s: %s\n", m.ID, m.Time, m.UserName, to, m.Text)
	if m.Attachment != nil {
		_, _ = fmt.Fprintf(cli.out, "    [adjunto] %s <%s>\n", m.Attachment.Name, m.Attachment.URL)
	}
}

func (cli *commandLine) printStats(st comms.Stats) {
	_, _ = fmt.Fprintf(cli.out, "total: %d  directed: %d  general: %d  to me: %d\n", st.Total, st.Directed, st.General, st.ToMe)
}

func (cli *commandLine) listMessages(ctx context.Context, v user.Identity, args []string) error {
	messagesCmd := flag.NewFlagSet("messages", flag.ExitOnError)
	channel := messagesCmd.String("channel", "general", fmt.Sprintf("One of %v.", comms.Channels))
	search := messagesCmd.String("search", "", "Case-insensitive text to look for in text, author and recipient.")
	mine := messagesCmd.Bool("mine", false, "Only messages directed to me.")
	if err := messagesCmd.Parse(args); err != nil {
		return err
	}

	ch, err := comms.ParseChannel(*channel)
	if err != nil {
		return err
	}
	view, err := cli.viewModel.Build(ctx, comms.Query{Channel: ch, Search: *search, OnlyToMe: *mine, ViewerID: v.ID})
	if err != nil {
		return err
	}

	if len(view.Messages) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no messages")
	}
	for _, m := range view.Messages {
		cli.printMessage(m)
	}
	return nil
}

func (cli *commandLine) stats(ctx context.Context, v user.Identity) error {
	view, err := cli.viewModel.Build(ctx, comms.Query{ViewerID: v.ID})
	if err != nil {
		return err
	}
	cli.printStats(view.Stats)
	return nil
}

func (cli *commandLine) send(ctx context.Context, v user.Identity, args []string) error {
	sendCmd := flag.NewFlagSet("send", flag.ExitOnError)
	to := sendCmd.String("to", "", "Id of the staff member the message is directed to.")
	attach := sendCmd.String("attach", "", "Path of a local file to attach.")
	if err := sendCmd.Parse(args); err != nil {
		return err
	}
	text := strings.Join(sendCmd.Args(), " ")
	if text == "" {
		sendCmd.Usage()
		return errHelp
	}

	composer := comms.NewComposer(cli.messages, cli.usrSvc, cli.stager)
	defer func() {
		if err := composer.Close(); err != nil {
			cli.logger.Warn("releasing attachment", err)
		}
	}()

	composer.Text = text
	if err := composer.SelectRecipient(ctx, *to); err != nil {
		return err
	}
	if *attach != "" {
		// a file that cannot be staged never blocks the text
		if err := composer.Stage(*attach); err != nil {
			_, _ = fmt.Fprintf(cli.out, "warning: attachment not sent: %v\n", err)
		}
	}

	msg, ok, err := composer.Send(ctx, chat.Identity{ID: v.ID, Name: v.Name, AvatarURL: v.AvatarURL})
	if err != nil && !ok {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(cli.out, "nothing sent: message is blank")
		return nil
	}
	if err != nil {
		cli.logger.Warn("releasing attachment", err)
	}
	cli.printMessage(msg)
	return nil
}

func (cli *commandLine) staff(ctx context.Context) error {
	staff, err := cli.usrSvc.Staff(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, e := range staff {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Name, e.Role)
	}
	return w.Flush()
}

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core/user"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUser := loginCmd.String("user", "", "The user's id or username.")
	if err := loginCmd.Parse(args); err != nil {
		return err
	}
	if *loginUser == "" {
		loginCmd.Usage()
		return errHelp
	}

	usr, err := cli.usrSvc.GetByID(ctx, *loginUser)
	if errors.Cause(err) == user.ErrNotFound {
		usr, err = cli.usrSvc.GetByUsernameOrEmail(ctx, *loginUser)
	}
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return errInactive
	}

	if err = cli.session.Login(ctx, usr.Identity()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "logged in as %s (%s)\n", usr.Name, usr.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.session.Logout(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	v, err := cli.viewer()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s (%s) [%s]\n", v.Name, v.Role, v.ID)
	return nil
}

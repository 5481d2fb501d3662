package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/aula/core/user"
)

// addUser validates nu against the password policy and the directory, then creates the user.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "created %s (%s) with id %s\n", usr.Username, usr.Role, usr.ID)
	return nil
}

func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tROLE\tACTIVE")
	for _, usr := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", usr.ID, usr.Username, usr.Name, usr.Role, usr.IsActive)
	}
	return w.Flush()
}

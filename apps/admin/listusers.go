package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/user"
)

func (cli *commandLine) listUsers(userType, search string) error {
	ctx := context.Background()
	filter := &user.QueryFilter{Type: userType, Search: search}
	filter.Clean()

	users, err := cli.usrRepo.QueryUsers(ctx, filter, []core.DBOrdering{{Field: "created_at", Ascending: true}})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTYPE\tACTIVE\tLAST LOGIN")
	for _, usr := range users {
		lastLogin := "never"
		if !usr.LastLogin.IsZero() {
			lastLogin = usr.LastLogin.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", usr.ID, usr.Name, usr.Email, usr.Type, usr.Active(), lastLogin)
	}
	return w.Flush()
}

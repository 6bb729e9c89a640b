package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, userType, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	userType = core.CleanString(userType)

	var known bool
	for _, t := range user.AllTypes {
		if t == userType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown user type %q", userType)
	}

	now := time.Now().UTC()
	active := true

	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: email})
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:      name,
			Email:     email,
			Type:      userType,
			IsActive:  &active,
			CreatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		usr.UpdatedAt = now
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Name = name
	usr.Type = userType
	usr.IsActive = &active
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = now
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}

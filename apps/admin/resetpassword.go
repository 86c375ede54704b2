package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsername(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByEmail(uname); err != nil {
			return err
		}
	}

	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	return cli.usrRepo.UpdateUserPassword(usr.ID, usr.PasswordHash, time.Now().UTC())
}

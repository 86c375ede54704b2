package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/admin"
)

func (cli *commandLine) createAdmin(email, pwd string) error {
	email = core.CleanString(email, true /* lower */)

	if _, err := cli.admRepo.GetAdminByEmail(email); err == nil {
		return fmt.Errorf("an admin with email %q already exists", email)
	} else if errors.Cause(err) != admin.ErrNotFound {
		return err
	}

	adm := admin.Admin{Email: email}
	if err := adm.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if _, err := cli.admRepo.CreateAdmin(adm); err != nil {
		return err
	}
	fmt.Printf("admin %q created\n", email)
	return nil
}

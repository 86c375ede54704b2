package admin

import (
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
)

var ErrNotFound = errors.New("admin not found")

type (
	Repository interface {
		GetAdminByEmail(email string) (Admin, error)
		CreateAdmin(a Admin) (Admin, error)
	}

	Service interface {
		GetByEmail(email string) (Admin, error)
		// EnsureSeeded creates the configured admin record if it does not exist yet.
		EnsureSeeded() error
	}

	service struct {
		repo Repository
		conf *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, conf *core.Config) Service {
	return &service{repo: repo, conf: conf}
}

func (svc *service) GetByEmail(email string) (Admin, error) {
	return svc.repo.GetAdminByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) EnsureSeeded() error {
	if svc.conf.Admin.Email == "" || svc.conf.Admin.Password == "" {
		return nil
	}

	if _, err := svc.repo.GetAdminByEmail(svc.conf.Admin.Email); err == nil {
		return nil
	} else if errors.Cause(err) != ErrNotFound {
		return err
	}

	adm := Admin{Email: core.CleanString(svc.conf.Admin.Email, true /* lower */)}
	if err := adm.SetPassword(svc.conf.Admin.Password); err != nil {
		return errors.Wrap(err, "hashing admin password")
	}
	_, err := svc.repo.CreateAdmin(adm)
	return errors.Wrap(err, "seeding admin")
}

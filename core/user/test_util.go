package user

import (
	"github.com/vaaniprep/vaani/core"
)

type serviceMock struct {
	service
}

// NewServiceMock runs mail-sending flows synchronously so tests can observe
// sent messages deterministically.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			conf:    conf,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	plain, token := makeResetToken(svc.conf, usr)
	if err = svc.repo.CreateResetToken(token); err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr, plain)
	return nil
}

package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core"
)

var (
	// errors
	ErrNotFound          = errors.New("user not found")
	ErrEmailExists       = errors.New("a user with this email already exists")
	ErrUsernameExists    = errors.New("a user with this username already exists")
	ErrResetTokenInvalid = errors.New("invalid or expired token")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		GetUserByUsername(username string) (User, error)
		PhoneNumberExists(phoneNumber string) (bool, error)
		SetLastLogin(usr User) (User, error)
		UpdateUserPassword(id int, hash []byte, updatedAt time.Time) error

		CreateResetToken(t ResetToken) error
		GetResetToken(tokenHash []byte) (ResetToken, error)
		DeleteResetToken(tokenHash []byte) error
		DeleteUserResetTokens(userID int) error
	}

	Service interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		GetByID(id int) (User, error)
		GetByEmail(email string) (User, error)
		SetLastLogin(usr User) (User, error)
		CheckCredentials(cq CredentialsQuery) (Existence, error)
		RequestPasswordReset(email string) error
		ResetPassword(plainToken, newPassword string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      RoleStudent,
		Gender:    nu.Gender,
		GoalID:    nu.GoalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.PhoneNumber != "" {
		usr.PhoneNumber.SetValid(nu.PhoneNumber)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	return svc.repo.SetLastLogin(usr)
}

// CheckCredentials reports per-field existence for live form validation.
// Not a security boundary.
func (svc *service) CheckCredentials(cq CredentialsQuery) (Existence, error) {
	var ex Existence
	if cq.Username != "" {
		if _, err := svc.repo.GetUserByUsername(cq.Username); err == nil {
			ex.Username = true
		} else if errors.Cause(err) != ErrNotFound {
			return Existence{}, err
		}
	}
	if cq.Email != "" {
		if _, err := svc.repo.GetUserByEmail(cq.Email); err == nil {
			ex.Email = true
		} else if errors.Cause(err) != ErrNotFound {
			return Existence{}, err
		}
	}
	if cq.PhoneNumber != "" {
		exists, err := svc.repo.PhoneNumberExists(cq.PhoneNumber)
		if err != nil {
			return Existence{}, err
		}
		ex.PhoneNumber = exists
	}
	return ex, nil
}

// RequestPasswordReset issues a single-use reset token and mails it.
// Returns ErrNotFound for unknown emails; the caller flattens that away.
func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}

	plain, token := makeResetToken(svc.conf, usr)
	if err = svc.repo.CreateResetToken(token); err != nil {
		return errors.Wrap(err, "storing reset token")
	}
	go svc.sendPasswordResetMail(usr, plain)
	return nil
}

// ResetPassword consumes a reset token. Expired or unknown tokens fail with
// ErrResetTokenInvalid; expired ones are purged on detection.
func (svc *service) ResetPassword(plainToken, newPassword string) error {
	hash := HashToken(svc.conf.SecretKey, plainToken)
	token, err := svc.repo.GetResetToken(hash)
	if err != nil {
		if errors.Cause(err) == ErrResetTokenInvalid {
			return ErrResetTokenInvalid
		}
		return err
	}
	if token.Expired() {
		_ = svc.repo.DeleteResetToken(hash)
		return ErrResetTokenInvalid
	}

	usr, err := svc.repo.GetUserByID(token.UserID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ErrResetTokenInvalid
		}
		return err
	}
	if err = usr.SetPassword(newPassword); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err = svc.repo.UpdateUserPassword(usr.ID, usr.PasswordHash, time.Now().UTC()); err != nil {
		return err
	}
	// single-use: purge this and any other outstanding tokens
	return svc.repo.DeleteUserResetTokens(usr.ID)
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Welcome to " + svc.conf.AppName,
			TemplateName: "welcome",
			TemplateData: struct{ Name string }{usr.Name},
		},
	)
}

func (svc *service) sendPasswordResetMail(usr User, plainToken string) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Password Reset",
			TemplateName: "password-reset",
			TemplateData: struct {
				Name string
				Path string
			}{
				Name: usr.Name,
				Path: fmt.Sprintf("/reset-password/%s", plainToken),
			},
		},
	)
}

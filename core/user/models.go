package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaaniprep/vaani/core"
)

// RoleStudent is the only role regular accounts carry; admin identities live
// in a separate credential store (core/admin).
const RoleStudent = "STUDENT"

type User struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Role           string      `json:"role"`
	Gender         string      `json:"gender,omitempty"`
	PhoneNumber    null.String `json:"phoneNumber,omitempty"`
	ProfilePicture null.String `json:"profilePicture,omitempty"`
	GoalID         null.Int    `json:"goalId,omitempty"`
	PasswordHash   []byte      `json:"-"`
	CreatedAt      time.Time   `json:"createdAt"` // UTC
	UpdatedAt      time.Time   `json:"updatedAt"` // UTC
	LastLogin      time.Time   `json:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// PublicUser is the minimal projection returned on signup/login.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NewUser contains information needed to register a new student account.
type NewUser struct {
	Name        string   `json:"name" validate:"required"`
	Username    string   `json:"username" validate:"required,username_"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required"`
	Gender      string   `json:"gender" validate:"omitempty,oneof=male female other"`
	GoalID      null.Int `json:"goalId" validate:"-"`
	PhoneNumber string   `json:"phoneNumber" validate:"omitempty,phone10"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.PhoneNumber = core.CleanString(nu.PhoneNumber)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Username, nu.Email)
}

// ResetUserPassword carries the new password of a password-reset confirmation;
// the single-use token itself travels in the URL.
type ResetUserPassword struct {
	Password string `json:"password" validate:"required"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

// CredentialsQuery is the live-form uniqueness probe: any subset of the three
// fields may be supplied.
type CredentialsQuery struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (cq *CredentialsQuery) Clean() {
	cq.Username = core.CleanString(cq.Username, true /* lower */)
	cq.Email = core.CleanString(cq.Email, true /* lower */)
	cq.PhoneNumber = core.CleanString(cq.PhoneNumber)
}

func (cq CredentialsQuery) IsEmpty() bool {
	return cq.Username == "" && cq.Email == "" && cq.PhoneNumber == ""
}

// Existence reports per-field presence for a CredentialsQuery.
type Existence struct {
	Username    bool `json:"username"`
	Email       bool `json:"email"`
	PhoneNumber bool `json:"phoneNumber"`
}

// InitValidators registers this package's struct-level validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	validate.RegisterStructValidation(resetPasswordStructValidation, ResetUserPassword{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdComplexityTag, pwdComplexityText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

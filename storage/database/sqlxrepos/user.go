package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/vaaniprep/vaani/core/user"
)

type dbUser struct {
	ID             int         `db:"id"`
	Name           string      `db:"name"`
	Username       string      `db:"username"`
	Email          string      `db:"email"`
	Role           string      `db:"role"`
	Gender         string      `db:"gender"`
	PhoneNumber    null.String `db:"phone_number"`
	ProfilePicture null.String `db:"profile_picture"`
	GoalID         null.Int    `db:"goal_id"`
	PasswordHash   []byte      `db:"password_hash"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
	LastLogin      null.Time   `db:"last_login"`
}

func (u dbUser) toUser() user.User {
	usr := user.User{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		Gender:         u.Gender,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
		GoalID:         u.GoalID,
		PasswordHash:   u.PasswordHash,
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
	if u.LastLogin.Valid {
		usr.LastLogin = u.LastLogin.Time.UTC()
	}
	return usr
}

const selectUser = `
SELECT id, name, username, email, role, gender, phone_number, profile_picture,
       goal_id, password_hash, created_at, updated_at, last_login
FROM app_user`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int64, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, int64(usr.ID))
	}

	var matches []dbUser
	err := repo.db.Select(
		&matches,
		selectUser+` WHERE (username = $1 OR email = $2) AND id <> ALL($3)`,
		username, email, pq.Array(exclIDs),
	)
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, m := range matches {
		if m.Username == username {
			return user.ErrUsernameExists
		}
		if m.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	row := repo.db.QueryRow(
		`INSERT INTO app_user
		 (name, username, email, role, gender, phone_number, profile_picture, goal_id, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		usr.Name, usr.Username, usr.Email, usr.Role, usr.Gender,
		usr.PhoneNumber, usr.ProfilePicture, usr.GoalID, usr.PasswordHash,
		usr.CreatedAt, usr.UpdatedAt,
	)
	if err := row.Scan(&usr.ID); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			switch pqErr.Constraint {
			case "app_user_username_key":
				return user.User{}, user.ErrUsernameExists
			case "app_user_email_key":
				return user.User{}, user.ErrEmailExists
			}
		}
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) getUser(query string, args ...interface{}) (user.User, error) {
	var u dbUser
	if err := repo.db.Get(&u, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return u.toUser(), nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.getUser(selectUser+` WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getUser(selectUser+` WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getUser(selectUser+` WHERE username = $1`, username)
}

func (repo *userRepository) PhoneNumberExists(phoneNumber string) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM app_user WHERE phone_number = $1)`, phoneNumber)
	return exists, errors.Wrap(err, "checking phone number")
}

func (repo *userRepository) SetLastLogin(usr user.User) (user.User, error) {
	usr.LastLogin = time.Now().UTC()
	res, err := repo.db.Exec(`UPDATE app_user SET last_login = $1 WHERE id = $2`, usr.LastLogin, usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) UpdateUserPassword(id int, hash []byte, updatedAt time.Time) error {
	res, err := repo.db.Exec(`UPDATE app_user SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, updatedAt, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

// Password reset tokens

func (repo *userRepository) CreateResetToken(t user.ResetToken) error {
	_, err := repo.db.Exec(
		`INSERT INTO password_reset_token (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		t.TokenHash, t.UserID, t.ExpiresAt,
	)
	return errors.Wrap(err, "creating reset token")
}

func (repo *userRepository) GetResetToken(tokenHash []byte) (user.ResetToken, error) {
	var t struct {
		TokenHash []byte    `db:"token_hash"`
		UserID    int       `db:"user_id"`
		ExpiresAt time.Time `db:"expires_at"`
	}
	err := repo.db.Get(&t, `SELECT token_hash, user_id, expires_at FROM password_reset_token WHERE token_hash = $1`, tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.ResetToken{}, user.ErrResetTokenInvalid
		}
		return user.ResetToken{}, errors.Wrap(err, "finding reset token")
	}
	return user.ResetToken{TokenHash: t.TokenHash, UserID: t.UserID, ExpiresAt: t.ExpiresAt.UTC()}, nil
}

func (repo *userRepository) DeleteResetToken(tokenHash []byte) error {
	_, err := repo.db.Exec(`DELETE FROM password_reset_token WHERE token_hash = $1`, tokenHash)
	return errors.Wrap(err, "deleting reset token")
}

func (repo *userRepository) DeleteUserResetTokens(userID int) error {
	_, err := repo.db.Exec(`DELETE FROM password_reset_token WHERE user_id = $1`, userID)
	return errors.Wrap(err, "deleting user reset tokens")
}

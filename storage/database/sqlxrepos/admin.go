package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vaaniprep/vaani/core/admin"
)

type dbAdmin struct {
	ID           int    `db:"id"`
	Email        string `db:"email"`
	PasswordHash []byte `db:"password_hash"`
}

type adminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*adminRepository)(nil)

func NewAdminRepository(db *sqlx.DB) *adminRepository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) GetAdminByEmail(email string) (admin.Admin, error) {
	var a dbAdmin
	err := repo.db.Get(&a, `SELECT id, email, password_hash FROM admin WHERE email = $1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, errors.Wrap(err, "finding admin")
	}
	return admin.Admin{ID: a.ID, Email: a.Email, PasswordHash: a.PasswordHash}, nil
}

func (repo *adminRepository) CreateAdmin(a admin.Admin) (admin.Admin, error) {
	row := repo.db.QueryRow(
		`INSERT INTO admin (email, password_hash) VALUES ($1, $2) RETURNING id`,
		a.Email, a.PasswordHash,
	)
	if err := row.Scan(&a.ID); err != nil {
		return admin.Admin{}, errors.Wrap(err, "creating admin")
	}
	return a, nil
}

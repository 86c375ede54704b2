package inmemdb

import (
	"sort"
	"time"

	"github.com/vaaniprep/vaani/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	exclUsrsLen := len(excludedUsers)
	if exclUsrsLen > 1 {
		sort.Slice(excludedUsers, func(i, j int) bool { return excludedUsers[i].ID < excludedUsers[j].ID })
	}

	for _, usr := range repo.query() {
		if usr.Username == username && !isExcluded(usr, excludedUsers, exclUsrsLen) {
			return user.ErrUsernameExists
		}
		if usr.Email == email && !isExcluded(usr, excludedUsers, exclUsrsLen) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func isExcluded(usr user.User, sortedUsers []user.User, n int) bool {
	if n == 0 {
		return false
	}
	i := sort.Search(n, func(i int) bool { return sortedUsers[i].ID >= usr.ID })
	return i < n && sortedUsers[i].ID == usr.ID
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.lastID++
	usr.ID = repo.db.lastID
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) PhoneNumberExists(phoneNumber string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.PhoneNumber.Valid && usr.PhoneNumber.String == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

func (repo *userRepository) SetLastLogin(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	stored.LastLogin = time.Now().UTC()
	return *stored, nil
}

func (repo *userRepository) UpdateUserPassword(id int, hash []byte, updatedAt time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	stored.PasswordHash = hash
	stored.UpdatedAt = updatedAt
	return nil
}

// Password reset tokens

func (repo *userRepository) CreateResetToken(t user.ResetToken) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.tokens[string(t.TokenHash)] = t
	return nil
}

func (repo *userRepository) GetResetToken(tokenHash []byte) (user.ResetToken, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.tokens[string(tokenHash)]; ok {
		return t, nil
	}
	return user.ResetToken{}, user.ErrResetTokenInvalid
}

func (repo *userRepository) DeleteResetToken(tokenHash []byte) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.tokens, string(tokenHash))
	return nil
}

func (repo *userRepository) DeleteUserResetTokens(userID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for key, t := range repo.db.tokens {
		if t.UserID == userID {
			delete(repo.db.tokens, key)
		}
	}
	return nil
}

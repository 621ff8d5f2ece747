package sqliterepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username string) error {
	var exists bool
	err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)", username)
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if exists {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	res, err := repo.db.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		usr.Username, usr.PasswordHash, usr.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting inserted user id")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, "SELECT * FROM users WHERE username = ?", username)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by username")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var users []user.User
	if err := repo.db.Select(&users, "SELECT * FROM users ORDER BY id ASC"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (repo *userRepository) HasUsers() (bool, error) {
	var exists bool
	if err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM users)"); err != nil {
		return false, errors.Wrap(err, "checking users presence")
	}
	return exists, nil
}

package user

import (
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")

	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string) error
		CreateUser(usr User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByUsername(username string) (User, error)
		QueryAllUsers() ([]User, error)
		HasUsers() (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(uname string) error {
	if err := svc.repo.CheckUsernameUniqueness(uname); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register persists a new User with a hashed password.
// The NewUser is expected to have been validated.
func (svc *Service) Register(nu NewUser) (User, error) {
	usr := User{
		Username:  nu.Username,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		// storage uniqueness backstop: a concurrent Register may win the race
		// after checkUniqueness passed
		if err == ErrUsernameExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return User{}, err
	}
	return usr, nil
}

// Authenticate verifies a credential pair and returns the matching User.
func (svc *Service) Authenticate(uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(uname)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

// HasUsers reports whether at least one User exists; used by the initial seeding.
func (svc *Service) HasUsers() (bool, error) {
	return svc.repo.HasUsers()
}

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"

	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
)

const (
	maxEmailLength    = 254
	minPasswordLength = 6
	maxNameLength     = 100
	bcryptCost        = 12
	dateLayout        = "2006-01-02"
)

var (
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrPasswordLength     = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrNameLength         = fmt.Errorf("names must be at most %d characters long", maxNameLength)
	ErrInvalidDateOfBirth = errors.New("dateOfBirth must use the YYYY-MM-DD format")
	ErrEmailAlreadyExists = fmt.Errorf("%w: email already exists", financeErrors.ErrConflict)
	ErrInvalidCredentials = errors.New("User or password invalid!")
	ErrProtectedUser      = financeErrors.ErrProtectedUser
)

type CreateInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	GenderID    int    `json:"genderId"`
}

type UpdateInput struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth"`
	GenderID    *int    `json:"genderId"`
}

// Service is the admin facing user management plus legacy credential checks.
type Service struct {
	repo    Repository
	adminID int64
	logger  *applog.Logger
}

func NewService(repo Repository, adminID int64, logger *applog.Logger) *Service {
	return &Service{repo: repo, adminID: adminID, logger: logger.WithComponent(applog.ComponentUser)}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashed), err
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmailAddress checks the format only.
func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, ErrInvalidDateOfBirth
	}
	return &t, nil
}

func validateNames(first, last string) error {
	if len(first) > maxNameLength || len(last) > maxNameLength {
		return ErrNameLength
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, take int) ([]User, error) {
	return s.repo.List(ctx, take)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, in CreateInput) (*User, error) {
	email := normalizeEmail(in.Email)
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrPasswordLength
	}
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	gender := in.GenderID
	if gender == 0 {
		gender = DefaultGenderID
	}
	user := &User{
		Email:        &email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		DateOfBirth:  dob,
		GenderID:     gender,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "user created", applog.FieldUserID, user.ID)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if err := validateEmailAddress(email); err != nil {
			return nil, err
		}
		user.Email = &email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, ErrPasswordLength
		}
		if user.PasswordHash, err = HashPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("could not hash password: %w", err)
		}
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if err := validateNames(user.FirstName, user.LastName); err != nil {
		return nil, err
	}
	if in.DateOfBirth != nil {
		if user.DateOfBirth, err = parseDate(*in.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if in.GenderID != nil {
		user.GenderID = *in.GenderID
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with everything it owns. The admin is protected.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id == s.adminID {
		return ErrProtectedUser
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", applog.FieldUserID, id)
	return nil
}

// Authenticate checks legacy email and password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	// provider-only users have no password and can never log in this way
	if user.PasswordHash == "" || !doPasswordsMatch(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

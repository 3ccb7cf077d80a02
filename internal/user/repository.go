package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/gustavoisensee/MyFinances/db"
)

const DefaultGenderID = 4

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser reports a clash on the unique clerk_id or email columns.
	ErrDuplicateUser = errors.New("user with this email or external id already exists")
)

type User struct {
	ID           int64      `json:"id"`
	ClerkID      *string    `json:"clerkId"`
	Email        *string    `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DateOfBirth  *time.Time `json:"dateOfBirth"`
	GenderID     int        `json:"genderId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) ClerkIDValue() string {
	if u.ClerkID == nil {
		return ""
	}
	return *u.ClerkID
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, take int) ([]User, error)
	// Create reports ErrDuplicateUser on a unique violation.
	Create(ctx context.Context, user *User) error
	// Update writes every column of user, including the clerk link.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, clerk_id, email, password, first_name, last_name, date_of_birth, gender_id, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.ClerkID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.DateOfBirth, &user.GenderID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) getBy(ctx context.Context, column string, value any) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	return scanUser(database.Conn(ctx, r.db).QueryRowContext(ctx, query, value))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByClerkID(ctx context.Context, clerkID string) (*User, error) {
	return r.getBy(ctx, "clerk_id", clerkID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "LOWER(email)", lower(email))
}

func (r *userRepository) List(ctx context.Context, take int) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	args := []any{}
	if take > 0 {
		query += ` LIMIT $1`
		args = append(args, take)
	}
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (clerk_id, email, password, first_name, last_name, date_of_birth, gender_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ClerkID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DateOfBirth, user.GenderID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET clerk_id = $1, email = $2, password = $3, first_name = $4, last_name = $5,
		    date_of_birth = $6, gender_id = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ClerkID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DateOfBirth, user.GenderID, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("could not update user: %w", err)
	}
	return nil
}

// Delete cascades to the user's months, private categories and tokens.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

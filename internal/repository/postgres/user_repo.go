package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

const userColumns = `id, username, email, first_name, last_name, role, active, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, passwordHash, u.FirstName, u.LastName, u.Role, u.Active, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetCredentialsByEmail also returns the password hash, for login only.
func (r *userRepository) GetCredentialsByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	query := `
		SELECT id, username, email, first_name, last_name, role, active, created_at, updated_at, password_hash
		FROM users
		WHERE email = $1
	`
	u := &domain.User{}
	var hash string
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Active,
		&u.CreatedAt, &u.UpdatedAt, &hash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", err
	}
	return u, hash, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", n))
		args = append(args, *patch.Username)
		n++
	}
	if patch.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", n))
		args = append(args, *patch.FirstName)
		n++
	}
	if patch.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", n))
		args = append(args, *patch.LastName)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Search(ctx context.Context, term string, limit int) ([]*domain.User, error) {
	pattern := "%" + term + "%"
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE username ILIKE $1 OR email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1
		ORDER BY username ASC
		LIMIT $2
	`, userColumns)
	return r.list(ctx, query, pattern, limit)
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY username ASC`, userColumns)
	return r.list(ctx, query, role)
}

func (r *userRepository) ListByActive(ctx context.Context, active bool) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE active = $1 ORDER BY username ASC`, userColumns)
	return r.list(ctx, query, active)
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) SetConfirmationCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	query := `
		UPDATE users SET confirmation_code = $1, confirmation_code_expires = $2, updated_at = NOW()
		WHERE email = $3
	`
	result, err := r.DB.ExecContext(ctx, query, code, expiresAt, email)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ConsumeConfirmationCode activates the account and clears the code in one
// conditional update; an expired or wrong code matches nothing.
func (r *userRepository) ConsumeConfirmationCode(ctx context.Context, email, code string) (bool, error) {
	query := `
		UPDATE users
		SET active = TRUE, confirmation_code = NULL, confirmation_code_expires = NULL, updated_at = NOW()
		WHERE email = $1 AND confirmation_code = $2 AND confirmation_code_expires > NOW()
	`
	result, err := r.DB.ExecContext(ctx, query, email, code)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

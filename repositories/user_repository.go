package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benchboss/lineup-system/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error)
	ConfirmEmail(ctx context.Context, id int) error
	SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error
	Update(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id int, status models.UserStatus) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Count(ctx context.Context, status *models.UserStatus) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, role, status,
	email_confirmed, email_confirmation_token, password_reset_token, password_reset_expires_at, created_at`

func (r *postgresUserRepository) scanUser(rowScanner interface {
	Scan(dest ...interface{}) error
}, u *models.User) error {
	return rowScanner.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.EmailConfirmed,
		&u.EmailConfirmationToken,
		&u.PasswordResetToken,
		&u.PasswordResetExpiresAt,
		&u.CreatedAt,
	)
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, status, email_confirmed, email_confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.EmailConfirmed,
		user.EmailConfirmationToken,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	u := &models.User{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanUser(row, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresUserRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email_confirmation_token = $1`, token)
}

func (r *postgresUserRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE password_reset_token = $1`, token)
}

func (r *postgresUserRepository) ConfirmEmail(ctx context.Context, id int) error {
	query := `UPDATE users SET email_confirmed = TRUE, email_confirmation_token = '' WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	query := `UPDATE users SET password_reset_token = $1, password_reset_expires_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to set password reset token: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
		    password_reset_token = $5, password_reset_expires_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.PasswordResetToken,
		user.PasswordResetExpiresAt,
		user.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateStatus(ctx context.Context, id int, status models.UserStatus) error {
	query := `UPDATE users SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(`SELECT ` + userColumns + `, COUNT(*) OVER() AS total_count FROM users`)
	if filter.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1))
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	total := 0
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
			&u.EmailConfirmed, &u.EmailConfirmationToken, &u.PasswordResetToken, &u.PasswordResetExpiresAt,
			&u.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

func (r *postgresUserRepository) Count(ctx context.Context, status *models.UserStatus) (int, error) {
	var count int
	var err error
	if status != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE status = $1`, *status).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

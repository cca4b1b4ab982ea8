package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastoria/orders-api/internal/domain/identity"
)

const (
	userColumns = `id, name, email, password_hash, firebase_uid, role, is_verified, profile_image, created_at`

	insertUserSQL = `INSERT INTO users (id, name, email, password_hash, firebase_uid, role, is_verified, profile_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateUserSQL = `UPDATE users
		SET name = $2, password_hash = $3, firebase_uid = $4, role = $5, is_verified = $6, profile_image = $7
		WHERE id = $1`
)

var _ identity.Repository = (*UserRepository)(nil)

// UserRepository implements identity.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. A duplicate email surfaces as
// identity.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *identity.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.FirebaseUID, string(u.Role), u.Verified, u.ProfileImage)
	if err != nil {
		if isUniqueViolation(err) {
			return identity.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

// GetByEmail returns the user with the given email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*identity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Update overwrites a user's mutable fields.
func (r *UserRepository) Update(ctx context.Context, u *identity.User) error {
	tag, err := r.pool.Exec(ctx, updateUserSQL,
		u.ID, u.Name, u.PasswordHash, u.FirebaseUID, string(u.Role), u.Verified, u.ProfileImage)
	if err != nil {
		return fmt.Errorf("updating user %q: %w", u.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, sql, arg string) (*identity.User, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (identity.User, error) {
	var (
		u    identity.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.FirebaseUID,
		&role, &u.Verified, &u.ProfileImage, &u.CreatedAt,
	)
	u.Role = identity.Role(role)
	return u, err
}

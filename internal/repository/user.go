// Package repository implements the data access layer over the store gateway.
package repository

import (
	"context"
	"fmt"

	"filmrate/internal/models"
	"filmrate/internal/store"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username, hashedPassword, displayName, email string) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id int64, displayName string) error
}

type userRepository struct {
	db *store.Client
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *store.Client) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, email, display_name, created_at"

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return scanUser(rows[0]), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+userColumns+", hashed_password FROM users WHERE username = ?", username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	user := scanUser(rows[0])
	user.HashedPassword = rows[0].String("hashed_password")
	return user, nil
}

// Create inserts the user and re-reads the created row. The username unique
// constraint maps to a conflict so a racing duplicate registration still gets
// a clean rejection.
func (r *userRepository) Create(ctx context.Context, username, hashedPassword, displayName, email string) (*models.User, error) {
	err := r.db.Exec(ctx,
		"INSERT INTO users (username, hashed_password, display_name, email) VALUES (?, ?, ?, ?)",
		username, hashedPassword, displayName, email)
	if err != nil {
		if store.IsConstraintViolation(err) {
			return nil, models.NewConflictError("Username already exists")
		}
		return nil, models.NewInternalError(err)
	}

	created, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, models.NewInternalError(fmt.Errorf("user %q missing after insert", username))
	}
	created.HashedPassword = ""
	return created, nil
}

func (r *userRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	if err := r.db.Exec(ctx,
		"UPDATE users SET display_name = ? WHERE id = ?", displayName, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func scanUser(row store.Row) *models.User {
	return &models.User{
		ID:          row.Int("id"),
		Username:    row.String("username"),
		Email:       row.String("email"),
		DisplayName: row.String("display_name"),
		CreatedAt:   row.String("created_at"),
	}
}

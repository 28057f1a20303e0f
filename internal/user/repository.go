package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, club_id, name, email, password_hash, role, permissions, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users (id, club_id, name, email, password_hash, role, permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	perms := u.Permissions
	if perms == nil {
		perms = pq.StringArray{}
	}

	var created User
	err := r.db.GetContext(ctx, &created, query,
		uuid.NewString(), u.ClubID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, perms,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByEmail(ctx context.Context, clubID, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE club_id = $1 AND email = $2`

	var u User
	err := r.db.GetContext(ctx, &u, query, clubID, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, clubID, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE club_id = $1 AND id = $2`

	var u User
	err := r.db.GetContext(ctx, &u, query, clubID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, clubID, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE club_id = $1 AND email = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, clubID, strings.ToLower(email))
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) UpdateAccess(ctx context.Context, clubID, id, role string, permissions []string) (*User, error) {
	query := `
		UPDATE users
		SET role = $1, permissions = $2
		WHERE club_id = $3 AND id = $4
		RETURNING ` + userColumns

	if permissions == nil {
		permissions = []string{}
	}

	var u User
	err := r.db.GetContext(ctx, &u, query, role, pq.StringArray(permissions), clubID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) List(ctx context.Context, clubID string, limit, offset int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	}

	users := []User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+`
		FROM users
		WHERE club_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, clubID, limit, offset)
	if err != nil {
		return nil, err
	}

	return users, nil
}

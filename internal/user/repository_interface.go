package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, clubID, email string) (*User, error)
	FindByID(ctx context.Context, clubID, id string) (*User, error)
	EmailExists(ctx context.Context, clubID, email string) (bool, error)
	UpdateAccess(ctx context.Context, clubID, id, role string, permissions []string) (*User, error)
	List(ctx context.Context, clubID string, limit, offset int) ([]User, error)
}

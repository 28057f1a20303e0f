package user

import (
	"time"

	"clubdesk/internal/auth"

	"github.com/lib/pq"
)

type User struct {
	ID           string         `db:"id" json:"id"`
	ClubID       string         `db:"club_id" json:"club_id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         string         `db:"role" json:"role"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

func (u *User) Subject() auth.Subject {
	return auth.Subject{
		UserID:      u.ID,
		ClubID:      u.ClubID,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}

type RegisterRequest struct {
	ClubID   string `json:"club_id" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	ClubID   string `json:"club_id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AccessRequest struct {
	Role        string   `json:"role" binding:"required,max=32"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

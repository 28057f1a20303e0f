package user

import (
	"context"
	"errors"
	"fmt"

	"clubdesk/internal/auth"
	"clubdesk/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	Me(ctx context.Context, id auth.Identity) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	SetAccess(ctx context.Context, id auth.Identity, userID string, req AccessRequest) (*User, error)
	List(ctx context.Context, id auth.Identity, limit, offset int) ([]User, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.ClubID, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	user, err := s.repo.Create(ctx, &User{
		ClubID:       req.ClubID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         auth.RoleMember,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.Subject(), s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	logger.Info("user registered", "club_id", user.ClubID, "user_id", user.ID)
	return user, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.ClubID, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(user.Subject(), s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) Me(ctx context.Context, id auth.Identity) (*User, error) {
	return s.repo.FindByID(ctx, id.ClubID, id.UserID)
}

// RefreshToken reloads the user so role and permission changes take effect
// on the next access token.
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.ClubID, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(user.Subject(), s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, user, nil
}

func (s *service) SetAccess(ctx context.Context, id auth.Identity, userID string, req AccessRequest) (*User, error) {
	user, err := s.repo.UpdateAccess(ctx, id.ClubID, userID, req.Role, req.Permissions)
	if err != nil {
		return nil, err
	}

	logger.Info("user access changed", "club_id", id.ClubID, "user_id", userID, "role", req.Role, "by", id.UserID)
	return user, nil
}

func (s *service) List(ctx context.Context, id auth.Identity, limit, offset int) ([]User, error) {
	return s.repo.List(ctx, id.ClubID, limit, offset)
}

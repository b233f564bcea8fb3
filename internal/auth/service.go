// internal/auth/service.go
// Password + JWT authentication. Refresh tokens are kept in a redis
// allow-list so a logout revokes them immediately.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/adeolasoneye/mingle-backend/internal/common/utils"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidToken          = errors.New("invalid token")
)

type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, userID int64) error
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
}

type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

func NewService(repo Repository, redisClient *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redisClient,
		config: config,
	}
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Gender:       req.Gender,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	// The token must still be on the allow-list.
	if s.redis != nil {
		stored, err := s.redis.Get(ctx, refreshKey(claims.UserID)).Result()
		if err != nil || stored != refreshToken {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) Logout(ctx context.Context, userID int64) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, refreshKey(userID)).Err()
}

func (s *service) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) issueTokens(ctx context.Context, user *User) (*AuthResponse, error) {
	now := time.Now()

	accessClaims := &utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "mingle-backend",
		Subject:   fmt.Sprintf("%d", user.ID),
	}

	accessToken, err := utils.GenerateJWT(accessClaims, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := &utils.JWTClaims{
		UserID:    user.ID,
		Type:      "refresh",
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "mingle-backend",
		Subject:   fmt.Sprintf("%d", user.ID),
	}

	refreshToken, err := utils.GenerateJWT(refreshClaims, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, refreshKey(user.ID), refreshToken, s.config.RefreshTokenExpiry).Err(); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func refreshKey(userID int64) string {
	return fmt.Sprintf("auth:refresh:%d", userID)
}

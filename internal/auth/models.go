// internal/auth/models.go

package auth

import "time"

// User is the account row owned by the auth module
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Email        string     `json:"email" db:"email"`
	Gender       string     `json:"gender" db:"gender"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsOnline     bool       `json:"is_online" db:"is_online"`
	LastActive   *time.Time `json:"last_active,omitempty" db:"last_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Request/response DTOs

type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=60"`
	Email       string `json:"email" validate:"required,email"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

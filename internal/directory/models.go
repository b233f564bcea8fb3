// internal/directory/models.go

package directory

import "time"

// User is the directory view of an account. The matching and messaging
// modules only ever read these fields; writes are limited to the
// activity markers below.
type User struct {
	ID             int64      `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	DisplayName    string     `json:"display_name" db:"display_name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Gender         string     `json:"gender" db:"gender"`
	ProfilePicture *string    `json:"profile_picture,omitempty" db:"profile_picture"`
	IsOnline       bool       `json:"is_online" db:"is_online"`
	LastActive     *time.Time `json:"last_active,omitempty" db:"last_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Info is the trimmed projection embedded in matching and messaging
// responses.
type Info struct {
	ID             int64   `json:"id" db:"id"`
	Username       string  `json:"username" db:"username"`
	DisplayName    string  `json:"display_name" db:"display_name"`
	Gender         string  `json:"gender" db:"gender"`
	ProfilePicture *string `json:"profile_picture,omitempty" db:"profile_picture"`
	IsOnline       bool    `json:"is_online" db:"is_online"`
}

// InfoOf converts a full directory user to its embedded projection
func InfoOf(u *User) *Info {
	if u == nil {
		return nil
	}
	return &Info{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Gender:         u.Gender,
		ProfilePicture: u.ProfilePicture,
		IsOnline:       u.IsOnline,
	}
}

// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                  int64      `db:"id"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	Name                string     `db:"name"`
	Role                string     `db:"role"`
	GoogleID            *string    `db:"google_id"`
	GitHubID            *string    `db:"github_id"`
	DefaultTrackingDays int        `db:"default_tracking_days"`
	TokenVersion        int        `db:"token_version"`
	IsActive            bool       `db:"is_active"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasOAuthLink reports whether the account is linked to any external
// identity provider.
func (u *User) HasOAuthLink() bool {
	return u.GoogleID != nil || u.GitHubID != nil
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OAuth provider names as stored on the user record.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

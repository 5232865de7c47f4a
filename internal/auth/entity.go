// AngelaMos | 2026
// entity.go

package auth

import "time"

// RefreshToken is one link in a rotation chain. Tokens sharing a family
// descend from the same login; replaying any consumed member burns the
// whole family.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       int64      `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}

func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Usable reports whether the token can still be exchanged: not spent,
// not revoked, not past its expiry.
func (t *RefreshToken) Usable() bool {
	return !t.IsUsed && !t.Revoked() && !t.Expired()
}

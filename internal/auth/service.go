// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
)

// UserInfo is the account slice the auth flows need. The user service
// provides it so this package never touches the users table directly.
type UserInfo struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	TokenVersion int
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	GetByOAuthID(
		ctx context.Context,
		provider, oauthID string,
	) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	LinkOAuthID(
		ctx context.Context,
		userID int64,
		provider, oauthID string,
	) error
	IncrementTokenVersion(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// ClientMeta carries the request fingerprint stored alongside each
// refresh token for the session listing.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	repo  Repository
	jwt   *JWTManager
	users UserProvider
	redis *core.Redis
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	redis *core.Redis,
) *Service {
	return &Service{
		repo:  repo,
		jwt:   jwt,
		users: users,
		redis: redis,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	meta ClientMeta,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(ctx, user, meta, sessionStart{})
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	meta ClientMeta,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Burn the same hashing time for unknown emails so response
			// timing cannot be used for account enumeration.
			//nolint:errcheck
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, rehash, err := core.VerifyPasswordTimingSafe(
		req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if rehash != "" {
		//nolint:errcheck // opportunistic upgrade to current hash params
		_ = s.users.UpdatePassword(ctx, user.ID, rehash)
	}

	return s.openSession(ctx, user, meta, sessionStart{})
}

// OAuthLogin signs in a user whose identity was already verified against
// an external provider. An existing link wins; otherwise the account with
// the matching email gets linked, and failing that a fresh account is
// created with an unguessable password.
func (s *Service) OAuthLogin(
	ctx context.Context,
	provider, oauthID, email, name string,
	meta ClientMeta,
) (*AuthResponse, error) {
	user, err := s.users.GetByOAuthID(ctx, provider, oauthID)
	if err == nil {
		return s.openSession(ctx, user, meta, sessionStart{})
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user by oauth id: %w", err)
	}

	user, err = s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, core.ErrNotFound):
		user, err = s.createOAuthAccount(ctx, email, name)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := s.users.LinkOAuthID(ctx, user.ID, provider, oauthID); err != nil {
		return nil, fmt.Errorf("link oauth id: %w", err)
	}

	return s.openSession(ctx, user, meta, sessionStart{})
}

func (s *Service) createOAuthAccount(
	ctx context.Context,
	email, name string,
) (*UserInfo, error) {
	// The password is random and discarded; the account can only sign in
	// through the provider until a password reset.
	password, err := core.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		return nil, fmt.Errorf("create oauth user: %w", err)
	}

	return user, nil
}

// Refresh exchanges a refresh token for a fresh token pair. Presenting an
// already-consumed token is treated as theft and revokes the whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
	meta ClientMeta,
) (*AuthResponse, error) {
	stored, err := s.repo.GetByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get token: %w", err)
	}

	if stored.IsUsed {
		//nolint:errcheck // the reuse error is reported either way
		_ = s.repo.RevokeFamily(ctx, stored.FamilyID)
		return nil, ErrTokenReuse
	}
	if !stored.Usable() {
		if stored.Revoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.openSession(ctx, user, meta, sessionStart{
		familyID:    stored.FamilyID,
		predecessor: stored.ID,
	})
}

// Logout revokes the presented refresh token and blacklists the access
// token it travelled with, when the handler passes its claims along.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken string,
	userID int64,
	access *middleware.AccessTokenClaims,
) error {
	stored, err := s.repo.GetByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get token: %w", err)
	}

	if stored.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if err := s.repo.Revoke(ctx, stored.ID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.blacklistAccess(ctx, access)
	return nil
}

// LogoutAll revokes every refresh token the user has and bumps the token
// version so outstanding access tokens die at their next check.
func (s *Service) LogoutAll(
	ctx context.Context,
	userID int64,
	access *middleware.AccessTokenClaims,
) error {
	if err := s.repo.RevokeUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	s.blacklistAccess(ctx, access)
	return nil
}

func (s *Service) blacklistAccess(
	ctx context.Context,
	access *middleware.AccessTokenClaims,
) {
	if access == nil || access.TokenID == "" {
		return
	}
	ttl := time.Until(access.ExpiresAt)
	if ttl <= 0 {
		return
	}
	//nolint:errcheck // the refresh token is already revoked
	_ = s.redis.BlacklistToken(ctx, access.TokenID, ttl)
}

func (s *Service) Sessions(
	ctx context.Context,
	userID int64,
) ([]SessionInfo, error) {
	tokens, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	userID int64,
	sessionID string,
) error {
	token, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID int64,
	currentPassword, newPassword string,
	access *middleware.AccessTokenClaims,
) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	ok, _, err := core.VerifyPasswordWithRehash(
		currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// A password change invalidates every session, including this one.
	return s.LogoutAll(ctx, userID, access)
}

// VerifyAccessToken implements middleware.TokenVerifier. On top of the
// signature and claim checks it consults the revocation blacklist and the
// user's token version, so a logged-out token fails even before expiry.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.TokenID != "" {
		revoked, err := s.redis.IsTokenBlacklisted(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check blacklist: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf(
				"verify token: %w", core.ErrTokenRevoked)
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) CurrentUser(
	ctx context.Context,
	userID int64,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}

// sessionStart carries rotation context into openSession. The zero value
// starts a brand-new family.
type sessionStart struct {
	familyID    string
	predecessor string
}

func (s *Service) openSession(
	ctx context.Context,
	user *UserInfo,
	meta ClientMeta,
	start sessionStart,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(user.ID, start.familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	record := &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if start.predecessor != "" {
		//nolint:errcheck // chain bookkeeping, the new token already exists
		_ = s.repo.Consume(ctx, start.predecessor, record.ID)
	}

	accessTTL := s.jwt.config.AccessTokenExpire

	return &AuthResponse{
		User: UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: time.Now(),
		},
		Tokens: TokenResponse{
			AccessToken:  access,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(accessTTL / time.Second),
			ExpiresAt:    time.Now().Add(accessTTL),
		},
	}, nil
}

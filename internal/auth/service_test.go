// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/habitflow/internal/core"
)

type stubUsers struct {
	users   map[int64]*UserInfo
	byEmail map[string]int64
	byOAuth map[string]int64
	nextID  int64
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		users:   make(map[int64]*UserInfo),
		byEmail: make(map[string]int64),
		byOAuth: make(map[string]int64),
		nextID:  1,
	}
}

func (s *stubUsers) add(email, password, name string) *UserInfo {
	hash, err := core.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &UserInfo{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         "user",
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	s.nextID++
	return u
}

func (s *stubUsers) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	id, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return s.users[id], nil
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*UserInfo, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetByOAuthID(
	_ context.Context,
	provider, oauthID string,
) (*UserInfo, error) {
	id, ok := s.byOAuth[provider+":"+oauthID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return s.users[id], nil
}

func (s *stubUsers) Create(
	_ context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	s.nextID++
	return u, nil
}

func (s *stubUsers) LinkOAuthID(
	_ context.Context,
	userID int64,
	provider, oauthID string,
) error {
	s.byOAuth[provider+":"+oauthID] = userID
	return nil
}

func (s *stubUsers) IncrementTokenVersion(
	_ context.Context,
	userID int64,
) error {
	u, ok := s.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	return nil
}

func (s *stubUsers) UpdatePassword(
	_ context.Context,
	userID int64,
	passwordHash string,
) error {
	u, ok := s.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// stubTokens is an in-memory token store keyed by hash and id.
type stubTokens struct {
	byID map[string]*RefreshToken
}

func newStubTokens() *stubTokens {
	return &stubTokens{byID: make(map[string]*RefreshToken)}
}

func (s *stubTokens) Create(_ context.Context, token *RefreshToken) error {
	token.CreatedAt = time.Now()
	copied := *token
	s.byID[token.ID] = &copied
	return nil
}

func (s *stubTokens) GetByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	for _, t := range s.byID {
		if t.TokenHash == tokenHash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *stubTokens) GetByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *stubTokens) Consume(
	_ context.Context,
	id, successorID string,
) error {
	t, ok := s.byID[id]
	if !ok || t.IsUsed {
		return core.ErrNotFound
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &successorID
	return nil
}

func (s *stubTokens) Revoke(_ context.Context, id string) error {
	t, ok := s.byID[id]
	if !ok || t.RevokedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (s *stubTokens) RevokeFamily(
	_ context.Context,
	familyID string,
) error {
	now := time.Now()
	for _, t := range s.byID {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (s *stubTokens) RevokeUser(_ context.Context, userID int64) error {
	now := time.Now()
	for _, t := range s.byID {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (s *stubTokens) ListActive(
	_ context.Context,
	userID int64,
) ([]RefreshToken, error) {
	var out []RefreshToken
	for _, t := range s.byID {
		if t.UserID == userID && t.Usable() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *stubTokens) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}

func newServiceFixture(t *testing.T) (*Service, *stubUsers, *stubTokens) {
	t.Helper()
	jwt, err := NewJWTManager(testJWTConfig(), testSecret)
	require.NoError(t, err)

	users := newStubUsers()
	tokens := newStubTokens()
	return NewService(tokens, jwt, users, nil), users, tokens
}

var testMeta = ClientMeta{UserAgent: "go-test", IPAddress: "127.0.0.1"}

func TestLoginSuccess(t *testing.T) {
	svc, users, tokens := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testMeta)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.Len(t, tokens.byID, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	}, testMeta)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	}, testMeta)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ada@example.com",
		Password: "another password",
		Name:     "Imposter",
	}, testMeta)

	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestOAuthLoginExistingLink(t *testing.T) {
	svc, users, _ := newServiceFixture(t)
	u := users.add("ada@example.com", "correct horse battery", "Ada")
	require.NoError(t,
		users.LinkOAuthID(context.Background(), u.ID, "google", "g-123"))

	resp, err := svc.OAuthLogin(context.Background(),
		"google", "g-123", "ada@example.com", "Ada", testMeta)
	require.NoError(t, err)

	assert.Equal(t, u.ID, resp.User.ID)
}

func TestOAuthLoginLinksExistingEmail(t *testing.T) {
	svc, users, _ := newServiceFixture(t)
	u := users.add("ada@example.com", "correct horse battery", "Ada")

	resp, err := svc.OAuthLogin(context.Background(),
		"github", "gh-77", "ada@example.com", "Ada", testMeta)
	require.NoError(t, err)

	assert.Equal(t, u.ID, resp.User.ID)

	linked, err := users.GetByOAuthID(context.Background(), "github", "gh-77")
	require.NoError(t, err)
	assert.Equal(t, u.ID, linked.ID)
}

func TestOAuthLoginCreatesAccount(t *testing.T) {
	svc, users, _ := newServiceFixture(t)

	resp, err := svc.OAuthLogin(context.Background(),
		"google", "g-999", "new@example.com", "New User", testMeta)
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", resp.User.Email)

	created, err := users.GetByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, created.PasswordHash,
		"oauth accounts still get a password hash")
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, users, tokens := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testMeta)
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.Tokens.RefreshToken, testMeta)
	require.NoError(t, err)

	assert.NotEqual(t,
		first.Tokens.RefreshToken, second.Tokens.RefreshToken)
	assert.Len(t, tokens.byID, 2)

	// Both tokens belong to the same rotation family.
	families := make(map[string]struct{})
	for _, token := range tokens.byID {
		families[token.FamilyID] = struct{}{}
	}
	assert.Len(t, families, 1)
}

func TestRefreshReuseBurnsFamily(t *testing.T) {
	svc, users, tokens := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testMeta)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken, testMeta)
	require.NoError(t, err)

	// Replaying the consumed token must revoke the whole family.
	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken, testMeta)
	assert.ErrorIs(t, err, ErrTokenReuse)

	for _, token := range tokens.byID {
		assert.True(t, token.RevokedAt != nil || token.IsUsed,
			"every family member should be dead")
	}

	active, err := tokens.ListActive(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	_, err := svc.Refresh(
		context.Background(), "never-issued", testMeta)

	assert.True(t, errors.Is(err, core.ErrTokenInvalid))
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	svc, users, _ := newServiceFixture(t)
	users.add("ada@example.com", "correct horse battery", "Ada")
	users.add("bob@example.com", "a different password", "Bob")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testMeta)
	require.NoError(t, err)

	err = svc.Logout(ctx, resp.Tokens.RefreshToken, 2, nil)
	assert.True(t, errors.Is(err, core.ErrForbidden))
}

func TestLogoutAllBumpsTokenVersion(t *testing.T) {
	svc, users, tokens := newServiceFixture(t)
	u := users.add("ada@example.com", "correct horse battery", "Ada")
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery",
	}, testMeta)
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, u.ID, nil))

	assert.Equal(t, 1, u.TokenVersion)

	active, err := tokens.ListActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

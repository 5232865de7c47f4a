// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"strings"

	"github.com/angelamos/habitflow/internal/auth"
	"github.com/angelamos/habitflow/internal/core"
)

const defaultTrackingDays = 7

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		Email:               strings.ToLower(email),
		PasswordHash:        passwordHash,
		Name:                name,
		Role:                RoleUser,
		DefaultTrackingDays: defaultTrackingDays,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByOAuthID(
	ctx context.Context,
	provider, oauthID string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByOAuthID(ctx, provider, oauthID)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) LinkOAuthID(
	ctx context.Context,
	userID int64,
	provider, oauthID string,
) error {
	return s.repo.LinkOAuthID(ctx, userID, provider, oauthID)
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID int64,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetTrackingDays returns the user's default analytics window.
func (s *Service) GetTrackingDays(
	ctx context.Context,
	userID int64,
) (int, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.DefaultTrackingDays <= 0 {
		return defaultTrackingDays, nil
	}

	return user.DefaultTrackingDays, nil
}

func (s *Service) UpdateMe(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.DefaultTrackingDays != nil {
		user.DefaultTrackingDays = *req.DefaultTrackingDays
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) GetMe(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteMe(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id int64,
	role string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	// Invalidate outstanding tokens so the account goes dark immediately.
	if err := s.repo.IncrementTokenVersion(ctx, id); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return err
	}

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

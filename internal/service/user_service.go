package service

import (
	"context"

	"go.uber.org/zap"

	"taskhub/internal/model"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Me resolves the authenticated identity to its profile.
func (s *UserService) Me(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, NormalizeEmail(email))
}

// UpdateUsername changes the display name of the user with the given id.
// The access policy matches the rest of the API: existence first, then
// ownership, and a profile is only ever owned by its own user. A nil
// username leaves the stored value untouched.
func (s *UserService) UpdateUsername(ctx context.Context, email string, id int64, username *string) (*model.User, error) {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	requester, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if requester.ID != target.ID {
		return nil, model.NewForbidden("not authorized to update this profile")
	}

	if username != nil {
		target.Username = *username
		if err := s.users.UpdateUsername(ctx, target.ID, target.Username); err != nil {
			return nil, err
		}
		s.logger.Info("Profile updated", zap.Int64("user_id", target.ID))
	}
	return target, nil
}

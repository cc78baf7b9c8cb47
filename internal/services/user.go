package services

import (
	"context"

	"gradschool-portal/internal/entities"
	"gradschool-portal/internal/repositories"
	"gradschool-portal/pkg/types"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	GetUserByID(ctx context.Context, id uint64) (*entities.User, error)
	GrantRole(ctx context.Context, userID uint64, role string) error
	GetAllRoles(ctx context.Context) ([]entities.Role, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return s.userRepo.GetUsers(ctx, filter)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if roles, err := s.userRepo.GetRoles(ctx, id); err == nil {
		user.Roles = roles
	}
	return user, nil
}

func (s *UserService) GetAllRoles(ctx context.Context) ([]entities.Role, error) {
	return s.userRepo.GetAllRoles(ctx)
}

// GrantRole adds a role without removing existing ones. The display role
// follows the grant so list views show the highest-intent role.
func (s *UserService) GrantRole(ctx context.Context, userID uint64, role string) error {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.GrantRole(ctx, userID, role); err != nil {
		return err
	}
	if err := s.userRepo.UpdateDisplayRole(ctx, userID, role); err != nil {
		s.logger.Warn("display role update failed", zap.Uint64("userID", userID), zap.Error(err))
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/benchboss/lineup-system/models"
	"github.com/benchboss/lineup-system/repositories"
)

// AdminUserService — очередь модерации тренерских аккаунтов: одобрение,
// бан, удаление.
type AdminUserService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error)
	ApproveUser(ctx context.Context, userID int) (*models.User, error)
	BanUser(ctx context.Context, userID int) (*models.User, error)
	DeleteUser(ctx context.Context, userID int) error
}

type adminUserService struct {
	userRepo repositories.UserRepository
}

func NewAdminUserService(userRepo repositories.UserRepository) AdminUserService {
	return &adminUserService{userRepo: userRepo}
}

func (s *adminUserService) ListUsers(ctx context.Context, filter models.UserFilter) (models.UserListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return models.UserListResponse{}, err
	}

	for i := range users {
		users[i].PasswordHash = ""
	}
	return models.UserListResponse{
		Users:      users,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *adminUserService) setStatus(ctx context.Context, userID int, status models.UserStatus) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set user %d status to %s: %w", userID, status, err)
	}
	user.Status = status
	user.PasswordHash = ""
	return user, nil
}

func (s *adminUserService) ApproveUser(ctx context.Context, userID int) (*models.User, error) {
	return s.setStatus(ctx, userID, models.UserStatusActive)
}

func (s *adminUserService) BanUser(ctx context.Context, userID int) (*models.User, error) {
	return s.setStatus(ctx, userID, models.UserStatusBanned)
}

func (s *adminUserService) DeleteUser(ctx context.Context, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrForbiddenOperation
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

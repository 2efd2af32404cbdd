package service

import (
	"context"
	"errors"
	"sapaa_backend/internal/model"
	"sapaa_backend/internal/repository"
	"sapaa_backend/internal/util"

	"gorm.io/gorm"
)

// UpdateUserRequest 管理员修改用户，nil 字段保持不变
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name     *string         `json:"name"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
}

// UserService 管理后台的账号管理
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func validRole(r model.UserRole) bool {
	switch r {
	case model.Steward, model.Guest, model.Admin:
		return true
	}
	return false
}

func (s *UserService) GetUsers(ctx context.Context, page, limit int, filter repository.UserFilter) (*util.PageResponse, error) {
	users, total, err := s.UserRepo.FindWithPagination(ctx, (page-1)*limit, limit, filter)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UpdateUser actorID 为操作者，管理员不能降级或禁用自己
func (s *UserService) UpdateUser(ctx context.Context, actorID, id uint, req UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, util.ErrInvalidRole
		}
		if actorID == id && *req.Role != model.Admin {
			return nil, util.ErrCannotModifySelf
		}
		user.Role = *req.Role
	}
	if req.Disabled != nil {
		if actorID == id && *req.Disabled {
			return nil, util.ErrCannotModifySelf
		}
		user.Disabled = *req.Disabled
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DisableUser(ctx context.Context, actorID, id uint) (*model.User, error) {
	disabled := true
	return s.UpdateUser(ctx, actorID, id, UpdateUserRequest{Disabled: &disabled})
}

func (s *UserService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return util.ErrCannotModifySelf
	}
	if _, err := s.GetUserByID(ctx, id); err != nil {
		return err
	}
	return s.UserRepo.Delete(ctx, id)
}

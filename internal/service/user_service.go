package service

import (
	"context"
	"path"
	"strings"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/logger"

	"go.uber.org/zap"
)

// UpdateUserInput nil 字段不修改
type UpdateUserInput struct {
	Name  *string         `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string         `json:"email" binding:"omitempty,email"`
	Role  *model.UserRole `json:"role" binding:"omitempty,oneof=admin intern external"`
}

type UserService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository
	Storage     *StorageService
}

func NewUserService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		Storage:     storage,
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.UserRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// Update 修改基本信息；只有管理员可以修改角色
func (s *UserService) Update(ctx context.Context, actor util.Principal, id string, in UpdateUserInput) (*model.User, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		updates["email"] = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !actor.IsAdmin() {
			return nil, util.ErrPermissionDenied
		}
		updates["role"] = *in.Role
	}

	if err := s.UserRepo.Update(ctx, id, updates); err != nil {
		return nil, notFound(err, "user")
	}
	return s.Get(ctx, id)
}

// UpdateProfile 首次调用创建档案，之后原地更新
func (s *UserService) UpdateProfile(ctx context.Context, userID string, fields model.ProfileFields) (*model.Profile, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	return s.ProfileRepo.Upsert(ctx, userID, fields)
}

// Delete 删除用户后清理其上传的头像
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "user")
	}
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return notFound(err, "user")
	}
	s.removeAvatar(ctx, user.ID, user.Avatar)
	return nil
}

// UpdateAvatar 保存新头像，成功后删除旧头像文件
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, data []byte) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	url, err := s.Storage.UploadAvatar(ctx, userID, data)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.Update(ctx, userID, map[string]interface{}{"avatar": url}); err != nil {
		if delErr := s.Storage.DeleteByURL(ctx, url); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned avatar", zap.String("url", url), zap.Error(delErr))
		}
		return nil, notFound(err, "user")
	}
	s.removeAvatar(ctx, userID, user.Avatar)
	return s.Get(ctx, userID)
}

// removeAvatar 只删除本存储中 avatars/<userID>/ 下的对象；Google 头像等外部 URL 不处理
func (s *UserService) removeAvatar(ctx context.Context, userID string, avatar *string) {
	if avatar == nil || *avatar == "" {
		return
	}
	key, ok := s.Storage.ObjectKey(*avatar)
	if !ok || !strings.HasPrefix(key, path.Join("avatars", userID)+"/") {
		return
	}
	if err := s.Storage.Provider.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to remove old avatar",
			zap.String("user_id", userID),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *UserService) TouchLastSeen(ctx context.Context, userID string) error {
	return s.UserRepo.UpdateLastSeen(ctx, userID, time.Now())
}

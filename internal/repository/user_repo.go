package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.UserDetail, error)
	CreateUser(ctx context.Context, user *model.User, detail *model.UserDetail, roles []*model.UserRole) error
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserDetail(ctx context.Context, detail *model.UserDetail) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("UserDetail").
		Preload("UserRoles").
		First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0)
	result := s.db.WithContext(ctx).
		Preload("UserDetail").
		Preload("UserRoles").
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("UserDetail").
		Preload("UserRoles").
		Where("username = ?", username).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("UserDetail").
		Preload("UserRoles").
		Where("phone = ?", phone).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.UserDetail, error) {
	details := make([]*model.UserDetail, 0)
	result := s.db.WithContext(ctx).
		Select("user_id", "display_name", "avatar_url", "bio", "city").
		Where("user_id IN ?", ids).
		Find(&details)
	if result.Error != nil {
		return nil, result.Error
	}
	return details, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User, detail *model.UserDetail, roles []*model.UserRole) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		detail.UserID = user.ID
		if err := tx.Create(detail).Error; err != nil {
			return err
		}
		for _, role := range roles {
			role.UserID = user.ID
		}
		if len(roles) > 0 {
			if err := tx.Create(roles).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *UserRepoImpl) UpdateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(user).Error
}

func (s *UserRepoImpl) UpdateUserDetail(ctx context.Context, detail *model.UserDetail) error {
	return s.db.WithContext(ctx).Model(&model.UserDetail{}).
		Where("user_id = ?", detail.UserID).
		Updates(detail).Error
}

func (s *UserRepoImpl) DeleteUser(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("is_delete", true).Error
}

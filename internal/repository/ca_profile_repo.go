package repository

import (
	"CAConnect/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CAProfileRepo interface {
	CreateProfile(ctx context.Context, profile *model.CAProfile) error
	GetProfileByUserID(ctx context.Context, userID uint64) (*model.CAProfile, error)
	GetProfilesByUserIDs(ctx context.Context, userIDs []uint64) ([]*model.CAProfile, error)
	UpdateProfile(ctx context.Context, profile *model.CAProfile) error
	UpdateVerified(ctx context.Context, userID uint64, verified bool) error
	GetProfilesByCity(ctx context.Context, city string, limit, offset int) ([]*model.CAProfile, error)
}

type CAProfileRepoImpl struct {
	db *gorm.DB
}

func NewCAProfileRepo(db *gorm.DB) CAProfileRepo {
	return &CAProfileRepoImpl{db}
}

func (s *CAProfileRepoImpl) CreateProfile(ctx context.Context, profile *model.CAProfile) error {
	return s.db.WithContext(ctx).Create(profile).Error
}

func (s *CAProfileRepoImpl) GetProfileByUserID(ctx context.Context, userID uint64) (*model.CAProfile, error) {
	profile := &model.CAProfile{}
	result := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("user_id = ?", userID).
		First(profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return profile, nil
}

func (s *CAProfileRepoImpl) GetProfilesByUserIDs(ctx context.Context, userIDs []uint64) ([]*model.CAProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	profiles := make([]*model.CAProfile, 0, len(userIDs))
	result := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Where("user_id IN ?", userIDs).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (s *CAProfileRepoImpl) UpdateProfile(ctx context.Context, profile *model.CAProfile) error {
	return s.db.WithContext(ctx).Model(&model.CAProfile{}).
		Where("user_id = ?", profile.UserID).
		Select("firm_name", "practice_areas", "city", "experience_years", "fee_band", "about").
		Updates(profile).Error
}

func (s *CAProfileRepoImpl) UpdateVerified(ctx context.Context, userID uint64, verified bool) error {
	return s.db.WithContext(ctx).Model(&model.CAProfile{}).
		Where("user_id = ?", userID).
		Update("is_verified", verified).Error
}

// GetProfilesByCity is the database fallback used when the search index is
// unavailable.
func (s *CAProfileRepoImpl) GetProfilesByCity(ctx context.Context, city string, limit, offset int) ([]*model.CAProfile, error) {
	query := s.db.WithContext(ctx).
		Preload("User").
		Preload("User.UserDetail").
		Model(&model.CAProfile{})
	if city != "" {
		query = query.Where("city = ?", city)
	}
	profiles := make([]*model.CAProfile, 0)
	result := query.Order("rating DESC, review_count DESC").
		Limit(limit).Offset(offset).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

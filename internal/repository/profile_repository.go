package repository

import (
	"context"
	"errors"

	"intern_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert 不存在时创建档案，存在时原地更新；user_id 唯一索引保证每个用户至多一份
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, fields model.ProfileFields) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertProfile(tx, userID, fields, &profile)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// 并发创建时另一请求先插入，改为更新
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertProfile(tx, userID, fields, &profile)
		})
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func upsertProfile(tx *gorm.DB, userID string, fields model.ProfileFields, out *model.Profile) error {
	err := tx.Where("user_id = ?", userID).First(out).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		*out = model.Profile{UserID: userID}
		fields.Apply(out)
		return tx.Create(out).Error
	case err != nil:
		return err
	}

	updates := fields.Updates()
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(out).Updates(updates).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).First(out).Error
}

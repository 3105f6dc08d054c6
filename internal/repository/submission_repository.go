package repository

import (
	"context"

	"intern_hub_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionFilter struct {
	Status    model.SubmissionStatus
	StudentID string
}

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func withStudent(db *gorm.DB) *gorm.DB {
	return db.Preload("Student", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

// List 按提交时间倒序
func (r *SubmissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	query := withStudent(r.DB.WithContext(ctx))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	var submissions []model.Submission
	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := withStudent(r.DB.WithContext(ctx)).Where("id = ?", id).First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	return r.DB.WithContext(ctx).Omit("Student").Create(submission).Error
}

func (r *SubmissionRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.DB.WithContext(ctx).Model(&model.Submission{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Submission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"

	"intern_hub_backend/internal/model"

	"gorm.io/gorm"
)

// EvaluationRepository 评价只追加，不提供更新
type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func withIntern(db *gorm.DB) *gorm.DB {
	return db.Preload("Intern", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

func (r *EvaluationRepository) List(ctx context.Context) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := withIntern(r.DB.WithContext(ctx)).Order("created_at DESC").Find(&evaluations).Error
	return evaluations, err
}

func (r *EvaluationRepository) ListByIntern(ctx context.Context, internID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := withIntern(r.DB.WithContext(ctx)).
		Where("intern_id = ?", internID).
		Order("created_at DESC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := withIntern(r.DB.WithContext(ctx)).Where("id = ?", id).First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *EvaluationRepository) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return r.DB.WithContext(ctx).Omit("Intern").Create(evaluation).Error
}

func (r *EvaluationRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Evaluation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

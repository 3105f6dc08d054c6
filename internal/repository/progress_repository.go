package repository

import (
	"context"
	"time"

	"intern_hub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 课时完成记录，(user_id, lesson_id) 至多一条
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkComplete 插入或更新为已完成；重复调用结果相同，首次完成时间保留
func (r *ProgressRepository) MarkComplete(ctx context.Context, userID, lessonID string, at time.Time) (*model.LessonProgress, error) {
	db := r.DB.WithContext(ctx)
	progress := model.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: &at,
		UpdatedAt:   at,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"completed": true, "updated_at": at}),
	}).Create(&progress).Error
	if err != nil {
		return nil, err
	}

	var saved model.LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Unmark 确保记录不存在；记录本就不存在时不报错
func (r *ProgressRepository) Unmark(ctx context.Context, userID, lessonID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&model.LessonProgress{}).
		Error
}

// ListForCourse 某用户在指定课程各课时上的记录
func (r *ProgressRepository) ListForCourse(ctx context.Context, userID, courseID string) ([]model.LessonProgress, error) {
	db := r.DB.WithContext(ctx)
	lessonIDs := db.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)

	var progress []model.LessonProgress
	err := db.Where("user_id = ? AND lesson_id IN (?)", userID, lessonIDs).
		Order("updated_at ASC").
		Find(&progress).Error
	return progress, err
}

package repository

import (
	"context"

	"intern_hub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

// List 课程按创建时间倒序，课时按 position 排序
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Preload("Lessons", orderedLessons).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return findCourse(r.DB.WithContext(ctx), id)
}

func findCourse(db *gorm.DB, id string) (*model.Course, error) {
	var course model.Course
	err := db.Preload("Lessons", orderedLessons).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 课程与课时在同一事务内写入
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(course).Error
	})
}

// Update 更新课程字段；lessons 非 nil 时整体替换课时（旧课时及其进度删除，新课时重新生成标识）
func (r *CourseRepository) Update(ctx context.Context, id string, updates map[string]interface{}, lessons *[]model.Lesson) (*model.Course, error) {
	var course *model.Course
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", id).First(&model.Course{}).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&model.Course{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if lessons != nil {
			if err := deleteCourseLessons(tx, id); err != nil {
				return err
			}
			if len(*lessons) > 0 {
				if err := tx.Create(lessons).Error; err != nil {
					return err
				}
			}
		}

		var err error
		course, err = findCourse(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func deleteCourseLessons(tx *gorm.DB, courseID string) error {
	lessonIDs := tx.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID)
	if err := tx.Where("lesson_id IN (?)", lessonIDs).Delete(&model.LessonProgress{}).Error; err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&model.Lesson{}).Error
}

// Delete 删除课程及其课时和课时进度
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteCourseLessons(tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Course{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *CourseRepository) FindLesson(ctx context.Context, courseID, lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) UpdateLesson(ctx context.Context, courseID, lessonID string, updates map[string]interface{}) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := func() *gorm.DB {
			return tx.Where("id = ? AND course_id = ?", lessonID, courseID)
		}
		if err := scope().First(&lesson).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&lesson).Updates(updates).Error; err != nil {
			return err
		}
		return scope().First(&lesson).Error
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ? AND course_id = ?", lessonID, courseID).First(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", lessonID).Delete(&model.Lesson{}).Error
	})
}

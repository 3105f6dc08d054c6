package service

import (
	"context"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/monitoring"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	Now          func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository, courseRepo *repository.CourseRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		Now:          time.Now,
	}
}

// ListForCourse 调用者在该课程下的完成记录；课程不存在返回 404
func (s *ProgressService) ListForCourse(ctx context.Context, userID, courseID string) ([]model.LessonProgress, error) {
	exists, err := s.CourseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.NotFoundError("course")
	}

	progress, err := s.ProgressRepo.ListForCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []model.LessonProgress{}
	}
	return progress, nil
}

func (s *ProgressService) MarkComplete(ctx context.Context, userID, courseID, lessonID string) (*model.LessonProgress, error) {
	if _, err := s.CourseRepo.FindLesson(ctx, courseID, lessonID); err != nil {
		return nil, notFound(err, "lesson")
	}
	progress, err := s.ProgressRepo.MarkComplete(ctx, userID, lessonID, s.Now())
	if err != nil {
		return nil, err
	}
	monitoring.LessonCompletions.WithLabelValues("mark").Inc()
	return progress, nil
}

// Unmark 保证记录不存在，课时或记录不存在都视为成功
func (s *ProgressService) Unmark(ctx context.Context, userID, courseID, lessonID string) error {
	if err := s.ProgressRepo.Unmark(ctx, userID, lessonID); err != nil {
		return err
	}
	monitoring.LessonCompletions.WithLabelValues("unmark").Inc()
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
)

type CreateCourseInput struct {
	Title       string              `json:"title" binding:"required,min=1,max=200"`
	Description string              `json:"description"`
	Lessons     []model.LessonInput `json:"lessons" binding:"omitempty,dive"`
}

// UpdateCourseInput Lessons 为 nil 表示不动课时，非 nil（包括空数组）表示整体替换
type UpdateCourseInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Lessons     *[]model.LessonInput `json:"lessons"`
}

// Validate 返回字段级错误；通过时返回 nil
func (in UpdateCourseInput) Validate() *util.ValidationError {
	fields := map[string]string{}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		fields["title"] = "is required"
	}
	if in.Lessons != nil {
		for i, l := range *in.Lessons {
			if strings.TrimSpace(l.Title) == "" {
				fields[fmt.Sprintf("lessons[%d].title", i)] = "is required"
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &util.ValidationError{Fields: fields}
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

func buildLessons(courseID string, inputs []model.LessonInput) []model.Lesson {
	lessons := make([]model.Lesson, 0, len(inputs))
	for i, in := range inputs {
		lessons = append(lessons, in.ToLesson(courseID, i))
	}
	return lessons
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.CourseRepo.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "course")
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:       in.Title,
		Description: in.Description,
		Lessons:     buildLessons("", in.Lessons),
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return s.Get(ctx, course.ID)
}

func (s *CourseService) Update(ctx context.Context, id string, in UpdateCourseInput) (*model.Course, error) {
	if ve := in.Validate(); ve != nil {
		return nil, ve
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	var lessons *[]model.Lesson
	if in.Lessons != nil {
		replaced := buildLessons(id, *in.Lessons)
		lessons = &replaced
	}

	course, err := s.CourseRepo.Update(ctx, id, updates, lessons)
	if err != nil {
		return nil, notFound(err, "course")
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	return notFound(s.CourseRepo.Delete(ctx, id), "course")
}

func (s *CourseService) UpdateLesson(ctx context.Context, courseID, lessonID string, fields model.LessonFields) (*model.Lesson, error) {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return nil, util.NewValidationError("title", "is required")
	}
	lesson, err := s.CourseRepo.UpdateLesson(ctx, courseID, lessonID, fields.Updates())
	if err != nil {
		return nil, notFound(err, "lesson")
	}
	return lesson, nil
}

func (s *CourseService) DeleteLesson(ctx context.Context, courseID, lessonID string) error {
	return notFound(s.CourseRepo.DeleteLesson(ctx, courseID, lessonID), "lesson")
}

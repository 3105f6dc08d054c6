package service

import (
	"context"
	"errors"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type CreateSubmissionInput struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Abstract    string `json:"abstract"`
	StudentName string `json:"studentName"`
	StudentID   string `json:"studentId"`
	ImageURL    string `json:"imageUrl" binding:"required,url"`
}

type UpdateSubmissionInput struct {
	Title    *string                 `json:"title" binding:"omitempty,min=1,max=200"`
	Abstract *string                 `json:"abstract"`
	ImageURL *string                 `json:"imageUrl" binding:"omitempty,url"`
	Status   *model.SubmissionStatus `json:"status" binding:"omitempty,oneof=pending published rejected"`
}

type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	UserRepo       *repository.UserRepository
}

func NewSubmissionService(submissionRepo *repository.SubmissionRepository, userRepo *repository.UserRepository) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
	}
}

func (s *SubmissionService) List(ctx context.Context, filter repository.SubmissionFilter) ([]model.Submission, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, util.NewValidationError("status", "must be one of pending published rejected")
	}
	return s.SubmissionRepo.List(ctx, filter)
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	return submission, nil
}

// Create 非管理员只能以自己的名义提交；新提交总是 pending
func (s *SubmissionService) Create(ctx context.Context, actor util.Principal, in CreateSubmissionInput) (*model.Submission, error) {
	studentID := in.StudentID
	if studentID == "" || !actor.IsAdmin() {
		studentID = actor.UserID
	}

	student, err := s.UserRepo.FindByID(ctx, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewValidationError("studentId", "unknown user")
	}
	if err != nil {
		return nil, err
	}

	studentName := in.StudentName
	if studentName == "" {
		studentName = student.Name
	}

	submission := &model.Submission{
		Title:       in.Title,
		Abstract:    in.Abstract,
		StudentName: studentName,
		StudentID:   studentID,
		ImageURL:    in.ImageURL,
		Status:      model.SubmissionPending,
		SubmittedAt: time.Now(),
	}
	if err := s.SubmissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}
	monitoring.SubmissionsCreated.Inc()
	return s.Get(ctx, submission.ID)
}

// Update 作者或管理员可修改内容，只有管理员可以修改审核状态
func (s *SubmissionService) Update(ctx context.Context, actor util.Principal, id string, in UpdateSubmissionInput) (*model.Submission, error) {
	submission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessUser(submission.StudentID) {
		return nil, util.ErrPermissionDenied
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Abstract != nil {
		updates["abstract"] = *in.Abstract
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Status != nil && *in.Status != submission.Status {
		if !actor.IsAdmin() {
			return nil, util.ErrPermissionDenied
		}
		updates["status"] = *in.Status
	}

	if err := s.SubmissionRepo.Update(ctx, id, updates); err != nil {
		return nil, notFound(err, "submission")
	}
	return s.Get(ctx, id)
}

func (s *SubmissionService) Delete(ctx context.Context, actor util.Principal, id string) error {
	submission, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccessUser(submission.StudentID) {
		return util.ErrPermissionDenied
	}
	return notFound(s.SubmissionRepo.Delete(ctx, id), "submission")
}

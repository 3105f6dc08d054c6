package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/monitoring"
	"intern_hub_backend/pkg/tracing"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// CreateEvaluationInput 四项评分必填，mentorId/mentorName 为空时取当前用户
type CreateEvaluationInput struct {
	InternID       string   `json:"internId" binding:"required"`
	MentorID       string   `json:"mentorId"`
	MentorName     string   `json:"mentorName"`
	Punctuality    *float64 `json:"punctuality" binding:"required"`
	QualityOfWork  *float64 `json:"qualityOfWork" binding:"required"`
	Teamwork       *float64 `json:"teamwork" binding:"required"`
	ProblemSolving *float64 `json:"problemSolving" binding:"required"`
	Comment        string   `json:"comment"`
}

func (in CreateEvaluationInput) scores() model.EvaluationScores {
	value := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	return model.EvaluationScores{
		Punctuality:    value(in.Punctuality),
		QualityOfWork:  value(in.QualityOfWork),
		Teamwork:       value(in.Teamwork),
		ProblemSolving: value(in.ProblemSolving),
	}
}

const evaluationSheet = "Evaluations"

type EvaluationService struct {
	EvaluationRepo *repository.EvaluationRepository
	UserRepo       *repository.UserRepository
}

func NewEvaluationService(evaluationRepo *repository.EvaluationRepository, userRepo *repository.UserRepository) *EvaluationService {
	return &EvaluationService{
		EvaluationRepo: evaluationRepo,
		UserRepo:       userRepo,
	}
}

func (s *EvaluationService) List(ctx context.Context) ([]model.Evaluation, error) {
	return s.EvaluationRepo.List(ctx)
}

func (s *EvaluationService) ListByIntern(ctx context.Context, internID string) ([]model.Evaluation, error) {
	return s.EvaluationRepo.ListByIntern(ctx, internID)
}

// Create 校验评分范围后追加一条评价，不覆盖同一导师的历史评价
func (s *EvaluationService) Create(ctx context.Context, actor util.Principal, in CreateEvaluationInput) (*model.Evaluation, error) {
	scores := in.scores()
	if fields := scores.Validate(); fields != nil {
		return nil, &util.ValidationError{Fields: fields}
	}

	if _, err := s.UserRepo.FindByID(ctx, in.InternID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("internId", "unknown user")
		}
		return nil, err
	}

	mentorID, mentorName := in.MentorID, in.MentorName
	if mentorID == "" {
		mentorID = actor.UserID
	}
	if mentorName == "" {
		mentor, err := s.UserRepo.FindByID(ctx, mentorID)
		switch {
		case err == nil:
			mentorName = mentor.Name
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	evaluation := &model.Evaluation{
		InternID:         in.InternID,
		MentorID:         mentorID,
		MentorName:       mentorName,
		EvaluationScores: scores,
		Comment:          in.Comment,
	}
	if err := s.EvaluationRepo.Create(ctx, evaluation); err != nil {
		return nil, err
	}
	monitoring.EvaluationsRecorded.Inc()

	saved, err := s.EvaluationRepo.FindByID(ctx, evaluation.ID)
	if err != nil {
		return nil, notFound(err, "evaluation")
	}
	return saved, nil
}

func (s *EvaluationService) Delete(ctx context.Context, id string) error {
	return notFound(s.EvaluationRepo.Delete(ctx, id), "evaluation")
}

// Export 所有评价导出为 XLSX，每条评价一行
func (s *EvaluationService) Export(ctx context.Context) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "EvaluationService.Export")
	defer span.End()

	evaluations, err := s.EvaluationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", evaluationSheet); err != nil {
		return nil, err
	}

	header := []interface{}{
		"Created At", "Intern", "Intern Email", "Mentor",
		"Punctuality", "Quality of Work", "Teamwork", "Problem Solving",
		"Average", "Comment",
	}
	if err := f.SetSheetRow(evaluationSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, e := range evaluations {
		internName, internEmail := "", ""
		if e.Intern != nil {
			internName, internEmail = e.Intern.Name, e.Intern.Email
		}
		row := []interface{}{
			e.CreatedAt.Format(util.TimeFormat),
			internName,
			internEmail,
			e.MentorName,
			e.Punctuality,
			e.QualityOfWork,
			e.Teamwork,
			e.ProblemSolving,
			e.AverageScore,
			e.Comment,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(evaluationSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write evaluation row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/testutil"
	"intern_hub_backend/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newEvaluationService(db *gorm.DB) *EvaluationService {
	return NewEvaluationService(repository.NewEvaluationRepository(db), repository.NewUserRepository(db))
}

func validScores(in *CreateEvaluationInput) {
	in.Punctuality = testutil.Ptr(4.0)
	in.QualityOfWork = testutil.Ptr(4.0)
	in.Teamwork = testutil.Ptr(4.0)
	in.ProblemSolving = testutil.Ptr(4.0)
}

func TestCreateEvaluationScoreBoundaries(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	intern := testutil.CreateUser(t, db, "ada", model.Intern)
	mentor := testutil.CreateUser(t, db, "grace", model.Admin)
	actor := util.Principal{UserID: mentor.ID, Role: model.Admin}

	fields := []struct {
		name string
		set  func(in *CreateEvaluationInput, v float64)
	}{
		{"punctuality", func(in *CreateEvaluationInput, v float64) { in.Punctuality = &v }},
		{"qualityOfWork", func(in *CreateEvaluationInput, v float64) { in.QualityOfWork = &v }},
		{"teamwork", func(in *CreateEvaluationInput, v float64) { in.Teamwork = &v }},
		{"problemSolving", func(in *CreateEvaluationInput, v float64) { in.ProblemSolving = &v }},
	}

	for _, f := range fields {
		for _, bad := range []float64{-1, 5.5, 6} {
			in := CreateEvaluationInput{InternID: intern.ID}
			validScores(&in)
			f.set(&in, bad)

			_, err := svc.Create(ctx, actor, in)
			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("%s=%v: err = %v, want ValidationError", f.name, bad, err)
			}
			if _, ok := ve.Fields[f.name]; !ok || len(ve.Fields) != 1 {
				t.Fatalf("%s=%v: fields = %v, want only %s", f.name, bad, ve.Fields, f.name)
			}
		}
		for _, ok := range []float64{0, 5} {
			in := CreateEvaluationInput{InternID: intern.ID}
			validScores(&in)
			f.set(&in, ok)
			if _, err := svc.Create(ctx, actor, in); err != nil {
				t.Fatalf("%s=%v rejected: %v", f.name, ok, err)
			}
		}
	}

	var count int64
	db.Model(&model.Evaluation{}).Count(&count)
	if count != int64(len(fields)*2) {
		t.Fatalf("stored evaluations = %d, want %d (invalid ones must not be written)", count, len(fields)*2)
	}
}

func TestCreateEvaluationDefaultsMentorToActor(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newEvaluationService(db)

	intern := testutil.CreateUser(t, db, "ada", model.Intern)
	mentor := testutil.CreateUser(t, db, "grace", model.Admin)

	in := CreateEvaluationInput{InternID: intern.ID, Comment: "steady"}
	validScores(&in)
	got, err := svc.Create(context.Background(), util.Principal{UserID: mentor.ID, Role: model.Admin}, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.MentorID != mentor.ID || got.MentorName != mentor.Name {
		t.Fatalf("mentor = %s/%s, want %s/%s", got.MentorID, got.MentorName, mentor.ID, mentor.Name)
	}
	if got.Intern == nil || got.Intern.ID != intern.ID {
		t.Fatalf("intern not included: %+v", got.Intern)
	}
	if got.AverageScore != 4 {
		t.Fatalf("AverageScore = %v", got.AverageScore)
	}
}

func TestCreateEvaluationUnknownIntern(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newEvaluationService(db)

	in := CreateEvaluationInput{InternID: "missing"}
	validScores(&in)
	_, err := svc.Create(context.Background(), util.Principal{UserID: "m", Role: model.Admin}, in)
	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Fields["internId"] == "" {
		t.Fatalf("err = %v, want internId validation error", err)
	}
}

func TestExportEvaluations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newEvaluationService(db)
	ctx := context.Background()

	intern := testutil.CreateUser(t, db, "ada", model.Intern)
	mentor := testutil.CreateUser(t, db, "grace", model.Admin)
	in := CreateEvaluationInput{InternID: intern.ID, MentorName: "Grace", Comment: "great"}
	validScores(&in)
	if _, err := svc.Create(ctx, util.Principal{UserID: mentor.ID, Role: model.Admin}, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(evaluationSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[1][1] != intern.Name || rows[1][3] != "Grace" || rows[1][9] != "great" {
		t.Fatalf("row = %v", rows[1])
	}
}

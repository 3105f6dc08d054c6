package service

import (
	"context"
	"errors"
	"testing"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/repository"
	"intern_hub_backend/internal/testutil"
	"intern_hub_backend/internal/util"
)

func TestCourseCreateAndReplaceLessons(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCourseService(repository.NewCourseRepository(db))
	ctx := context.Background()

	course, err := svc.Create(ctx, CreateCourseInput{
		Title:       "C",
		Description: "D",
		Lessons:     []model.LessonInput{{Title: "L1", Content: "X"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(course.Lessons) != 1 || course.Lessons[0].Title != "L1" || course.Lessons[0].VideoURL != "" {
		t.Fatalf("lessons = %+v", course.Lessons)
	}

	clientID := course.Lessons[0].ID
	lessons := []model.LessonInput{
		{ID: &clientID, Title: "L1 again"},
		{Title: "L2", VideoURL: testutil.Ptr("https://video.example/2")},
	}
	updated, err := svc.Update(ctx, course.ID, UpdateCourseInput{Lessons: &lessons})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(updated.Lessons))
	}
	if updated.Lessons[0].ID == clientID {
		t.Fatal("client supplied lesson id was kept")
	}
	if updated.Lessons[0].Title != "L1 again" || updated.Lessons[1].VideoURL != "https://video.example/2" {
		t.Fatalf("lessons = %+v", updated.Lessons)
	}

	empty := []model.LessonInput{}
	cleared, err := svc.Update(ctx, course.ID, UpdateCourseInput{Lessons: &empty})
	if err != nil {
		t.Fatalf("Update with empty lessons: %v", err)
	}
	if len(cleared.Lessons) != 0 {
		t.Fatalf("lessons after empty replace = %d", len(cleared.Lessons))
	}
}

func TestCourseUpdateValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCourseService(repository.NewCourseRepository(db))
	ctx := context.Background()

	course := testutil.CreateCourse(t, db, "Orbits", "L1")

	blank := "  "
	lessons := []model.LessonInput{{Title: "ok"}, {Title: ""}}
	_, err := svc.Update(ctx, course.ID, UpdateCourseInput{Title: &blank, Lessons: &lessons})
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Fields["title"] == "" || ve.Fields["lessons[1].title"] == "" {
		t.Fatalf("fields = %v", ve.Fields)
	}

	// 校验失败不应写入任何修改
	got, err := svc.Get(ctx, course.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Orbits" || len(got.Lessons) != 1 || got.Lessons[0].Title != "L1" {
		t.Fatalf("course changed after rejected update: %+v", got)
	}

	if _, err := svc.Update(ctx, "missing", UpdateCourseInput{}); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing course err = %v", err)
	}
}

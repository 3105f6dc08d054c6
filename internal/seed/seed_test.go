package seed

import (
	"context"
	"testing"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Run(ctx, db); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	counts := []struct {
		model interface{}
		want  int64
	}{
		{&model.User{}, 3},
		{&model.Profile{}, 1},
		{&model.Course{}, 2},
		{&model.Lesson{}, 3},
		{&model.Submission{}, 1},
	}
	for _, c := range counts {
		var got int64
		if err := db.Model(c.model).Count(&got).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if got != c.want {
			t.Fatalf("%T count = %d, want %d", c.model, got, c.want)
		}
	}

	var intern model.User
	if err := db.Where("email = ?", "intern@example.com").First(&intern).Error; err != nil {
		t.Fatalf("find intern: %v", err)
	}
	if intern.Role != model.Intern {
		t.Fatalf("intern role = %s", intern.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(intern.Password), []byte(DemoPassword)); err != nil {
		t.Fatalf("demo password does not match: %v", err)
	}

	var submission model.Submission
	if err := db.First(&submission, "id = ?", "s1").Error; err != nil {
		t.Fatalf("find submission: %v", err)
	}
	if submission.StudentID != intern.ID || submission.Status != model.SubmissionPublished {
		t.Fatalf("unexpected submission %+v", submission)
	}
}

func TestRunKeepsExistingUser(t *testing.T) {
	db := testutil.NewDB(t)
	existing := testutil.CreateUser(t, db, "admin", model.Admin)

	if err := Run(context.Background(), db); err != nil {
		t.Fatalf("run: %v", err)
	}

	var admin model.User
	if err := db.Where("email = ?", "admin@example.com").First(&admin).Error; err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.ID != existing.ID || admin.Name != "admin" {
		t.Fatalf("existing admin overwritten: %+v", admin)
	}
}

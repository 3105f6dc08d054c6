package repository

import (
	"context"
	"testing"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/testutil"
)

func TestSubmissionListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	ada := testutil.CreateUser(t, db, "ada", model.Intern)
	bob := testutil.CreateUser(t, db, "bob", model.External)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	seed := []model.Submission{
		{Title: "a1", StudentID: ada.ID, Status: model.SubmissionPublished, SubmittedAt: base},
		{Title: "a2", StudentID: ada.ID, Status: model.SubmissionPending, SubmittedAt: base.Add(time.Hour)},
		{Title: "b1", StudentID: bob.ID, Status: model.SubmissionPublished, SubmittedAt: base.Add(2 * time.Hour)},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter SubmissionFilter
		want   []string
	}{
		{name: "all newest first", want: []string{"b1", "a2", "a1"}},
		{name: "by status", filter: SubmissionFilter{Status: model.SubmissionPublished}, want: []string{"b1", "a1"}},
		{name: "by student", filter: SubmissionFilter{StudentID: ada.ID}, want: []string{"a2", "a1"}},
		{name: "both", filter: SubmissionFilter{Status: model.SubmissionPending, StudentID: ada.ID}, want: []string{"a2"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d submissions, want %d", len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Fatalf("submission %d = %q, want %q", i, got[i].Title, title)
				}
				if got[i].Student == nil || got[i].Student.ID != got[i].StudentID {
					t.Fatalf("student not loaded for %q", got[i].Title)
				}
			}
		})
	}
}

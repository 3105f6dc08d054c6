package repository

import (
	"context"
	"testing"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/testutil"
)

func TestProfileUpsertKeepsSingleRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ada", model.Intern)

	created, err := repo.Upsert(ctx, user.ID, model.ProfileFields{
		University: testutil.Ptr("GISTDA University"),
		Major:      testutil.Ptr("Remote Sensing"),
	})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	updated, err := repo.Upsert(ctx, user.ID, model.ProfileFields{
		Major:  testutil.Ptr("Geoinformatics"),
		Mobile: testutil.Ptr("0812345678"),
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("profile id changed: %s -> %s", created.ID, updated.ID)
	}
	if updated.University == nil || *updated.University != "GISTDA University" {
		t.Fatalf("university lost: %v", updated.University)
	}
	if updated.Major == nil || *updated.Major != "Geoinformatics" {
		t.Fatalf("major = %v", updated.Major)
	}
	if updated.Mobile == nil || *updated.Mobile != "0812345678" {
		t.Fatalf("mobile = %v", updated.Mobile)
	}

	var count int64
	db.Model(&model.Profile{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("profiles = %d, want 1", count)
	}
}

func TestProfileUpsertWithNoFieldsCreatesEmptyProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "ada", model.Intern)
	first, err := repo.Upsert(ctx, user.ID, model.ProfileFields{})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, user.ID, model.ProfileFields{})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if first.ID != second.ID || second.UserID != user.ID {
		t.Fatalf("profiles differ: %+v vs %+v", first, second)
	}
}

package repository

import (
	"context"
	"testing"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/testutil"
)

func TestUsers_CreateIfAbsentAndUpdates(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewUsers(db)
	ctx := context.Background()

	inserted, err := repo.CreateIfAbsent(ctx, &models.User{Username: "anna@farm.test", Role: models.RoleWorker, IsActive: true})
	if err != nil || !inserted {
		t.Fatalf("first create: inserted=%v err=%v", inserted, err)
	}

	// повторная вставка того же username — тихий no-op, существующая запись не меняется
	inserted, err = repo.CreateIfAbsent(ctx, &models.User{Username: "anna@farm.test", Role: models.RoleAdmin, IsActive: true})
	if err != nil {
		t.Fatalf("duplicate create: %v", err)
	}
	if inserted {
		t.Fatalf("duplicate create reported inserted")
	}

	u, err := repo.FindByUsername(ctx, "anna@farm.test")
	if err != nil || u == nil {
		t.Fatalf("find: %v %+v", err, u)
	}
	if u.Role != models.RoleWorker || !u.IsActive {
		t.Fatalf("existing record was overwritten: %+v", u)
	}

	n, err := repo.CountByUsername(ctx, "anna@farm.test")
	if err != nil || n != 1 {
		t.Fatalf("count = %d err=%v, want 1", n, err)
	}

	rows, err := repo.UpdateRole(ctx, "anna@farm.test", models.RoleManager)
	if err != nil || rows != 1 {
		t.Fatalf("update role: rows=%d err=%v", rows, err)
	}
	rows, err = repo.UpdateActive(ctx, "anna@farm.test", false)
	if err != nil || rows != 1 {
		t.Fatalf("update active: rows=%d err=%v", rows, err)
	}
	rows, err = repo.UpdatePasswordHash(ctx, "anna@farm.test", "hash")
	if err != nil || rows != 1 {
		t.Fatalf("update password: rows=%d err=%v", rows, err)
	}

	u, _ = repo.FindByUsername(ctx, "anna@farm.test")
	if u.Role != models.RoleManager || u.IsActive || u.PasswordHash == nil || *u.PasswordHash != "hash" {
		t.Fatalf("updates not applied: %+v", u)
	}

	rows, err = repo.UpdateRole(ctx, "nobody", models.RoleAdmin)
	if err != nil || rows != 0 {
		t.Fatalf("update of missing user: rows=%d err=%v", rows, err)
	}
}

func TestUsers_FindMissing(t *testing.T) {
	repo := NewUsers(testutil.OpenTestDB(t))
	u, err := repo.FindByUsername(context.Background(), "ghost")
	if err != nil || u != nil {
		t.Fatalf("expected (nil, nil), got %+v %v", u, err)
	}
}

func TestUsers_CreateInactive(t *testing.T) {
	repo := NewUsers(testutil.OpenTestDB(t))
	ctx := context.Background()
	if _, err := repo.CreateIfAbsent(ctx, &models.User{Username: "off", Role: models.RoleWorker, IsActive: false}); err != nil {
		t.Fatalf("create: %v", err)
	}
	u, _ := repo.FindByUsername(ctx, "off")
	if u == nil || u.IsActive {
		t.Fatalf("inactive flag lost: %+v", u)
	}
}

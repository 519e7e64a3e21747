package repository

import (
	"context"
	"errors"
	"testing"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/testutil"
)

func TestRecords_InsertAndUpsert(t *testing.T) {
	db := testutil.OpenTestDB(t)
	recs := NewRecords(db, []string{"pigs"}).WithConflictKeys("pigs", "tag")
	ctx := context.Background()

	if err := recs.Insert(ctx, "pigs", map[string]any{"tag": "P-001", "breed": "Landrace", "status": "active"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// повторная вставка нарушает уникальность бирки
	if err := recs.Insert(ctx, "pigs", map[string]any{"tag": "P-001", "breed": "Duroc", "status": "active"}); err == nil {
		t.Fatalf("expected unique violation on duplicate insert")
	}

	if err := recs.Upsert(ctx, "pigs", map[string]any{"tag": "P-001", "breed": "Duroc", "status": "sold"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var pig models.Pig
	if err := db.Where("tag = ?", "P-001").First(&pig).Error; err != nil {
		t.Fatalf("load pig: %v", err)
	}
	if pig.Breed != "Duroc" || pig.Status != models.PigSold {
		t.Fatalf("upsert did not update: %+v", pig)
	}

	var n int64
	db.Model(&models.Pig{}).Count(&n)
	if n != 1 {
		t.Fatalf("pigs = %d, want 1", n)
	}
}

func TestRecords_RejectsUnknownTable(t *testing.T) {
	recs := NewRecords(testutil.OpenTestDB(t), []string{"pigs"})
	err := recs.Insert(context.Background(), "users", map[string]any{"username": "x"})
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("err = %v, want ErrUnknownTable", err)
	}
	err = recs.Upsert(context.Background(), "users", map[string]any{"username": "x"})
	if !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("err = %v, want ErrUnknownTable", err)
	}
}

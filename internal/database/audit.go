package database

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pigfarm-manager/internal/models"
)

// Audit пишет журнал действий. Ошибка записи не должна ломать основную операцию,
// поэтому она только логируется.
type Audit struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAudit(db *gorm.DB, log *zap.Logger) *Audit {
	return &Audit{db: db, log: log}
}

func (a *Audit) Record(ctx context.Context, actor, entity, subject, action, details string) {
	if a == nil || a.db == nil {
		return
	}
	entry := models.AuditLog{
		Actor:   actor,
		Entity:  entity,
		Subject: subject,
		Action:  action,
		Details: details,
	}
	if err := a.db.WithContext(ctx).Create(&entry).Error; err != nil {
		a.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func (a *Audit) Latest(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var logs []models.AuditLog
	err := a.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}

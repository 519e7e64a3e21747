package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Actor   string `gorm:"size:255;not null;index" json:"actor"` // username того, кто выполнил действие
	Entity  string `gorm:"size:50;not null" json:"entity"`       // "user", "offline_queue"
	Subject string `gorm:"size:255" json:"subject"`              // над кем/чем выполнено действие
	Action  string `gorm:"size:50;not null" json:"action"`       // "create", "set_role", "flush" и т.п.
	Details string `gorm:"type:text" json:"details"`
}

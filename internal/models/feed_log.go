package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedLog — запись о кормлении группы или конкретного животного.
type FeedLog struct {
	gorm.Model
	OrgID uint `gorm:"index"`

	PigTag   string    `gorm:"size:50;index"` // пусто — кормление всей группы
	FeedType string    `gorm:"size:100;not null"`
	AmountKg float64   `gorm:"not null"`
	FedAt    time.Time `gorm:"not null"`
	FedBy    string    `gorm:"size:255"`
}

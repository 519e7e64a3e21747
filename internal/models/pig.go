package models

import (
	"time"

	"gorm.io/gorm"
)

type PigStatus string

const (
	PigActive PigStatus = "active"
	PigSold   PigStatus = "sold"
	PigDead   PigStatus = "dead"
)

type Pig struct {
	gorm.Model
	OrgID uint `gorm:"index"`

	Tag       string    `gorm:"size:50;not null;uniqueIndex"` // ушная бирка
	Breed     string    `gorm:"size:100"`
	Sex       string    `gorm:"size:10"`
	Status    PigStatus `gorm:"type:varchar(20);not null"`
	BirthDate *time.Time
	WeightKg  float64
	Notes     string `gorm:"type:text"`
}

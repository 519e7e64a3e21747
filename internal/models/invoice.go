package models

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

type Invoice struct {
	gorm.Model
	OrgID uint `gorm:"index"`

	Number   string        `gorm:"size:50;not null;uniqueIndex"`
	Customer string        `gorm:"size:255;not null"`
	Amount   float64       `gorm:"not null"`
	Status   InvoiceStatus `gorm:"type:varchar(20);not null"`
	IssuedAt time.Time
	DueAt    *time.Time
	Notes    string `gorm:"type:text"`
}

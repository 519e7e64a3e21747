package models

import "gorm.io/gorm"

// Organization — хозяйство; записи и пользователи привязываются к нему через org_id.
type Organization struct {
	gorm.Model
	Name    string `gorm:"size:255;not null;uniqueIndex"`
	Region  string `gorm:"size:100"`
	Contact string `gorm:"size:255"`
	Notes   string `gorm:"type:text"`
}

package models

import "time"

type UserRole string

const (
	RoleWorker  UserRole = "worker"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// Valid сообщает, что роль одна из трёх известных. В БД нет CHECK на столбец role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleWorker, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User — запись о роли пользователя. Username — ключ идентичности:
// email для пользователей внешнего провайдера или логин, заведённый админом.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:255;not null" json:"username"`
	PasswordHash *string  `gorm:"size:100" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool     `gorm:"not null" json:"isActive"`
	OrgID        *uint    `gorm:"index" json:"orgId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

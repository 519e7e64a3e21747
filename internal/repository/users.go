package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pigfarm-manager/internal/models"
)

// Users — адаптер хранилища учётных записей поверх gorm.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// FindByUsername возвращает (nil, nil), если записи нет.
func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateIfAbsent вставляет запись, если username ещё свободен.
// Конфликт по уникальному индексу не ошибка: существующая запись остаётся, inserted=false.
func (r *Users) CreateIfAbsent(ctx context.Context, u *models.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).
		Create(u)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Users) CountByUsername(ctx context.Context, username string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n, err
}

// UpdatePasswordHash, UpdateRole и UpdateActive — одиночные UPDATE по username.
// Возвращают число затронутых строк: 0 означает, что пользователя нет.
func (r *Users) UpdatePasswordHash(ctx context.Context, username, hash string) (int64, error) {
	return r.update(ctx, username, "password_hash", hash)
}

func (r *Users) UpdateRole(ctx context.Context, username string, role models.UserRole) (int64, error) {
	return r.update(ctx, username, "role", role)
}

func (r *Users) UpdateActive(ctx context.Context, username string, active bool) (int64, error) {
	return r.update(ctx, username, "is_active", active)
}

func (r *Users) update(ctx context.Context, username, column string, value any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update(column, value)
	return res.RowsAffected, res.Error
}

package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pigfarm-manager/internal/models"
)

var (
	ErrAccountDeactivated = errors.New("account is deactivated, contact admin")
	ErrUnknownRole        = errors.New("stored role is not recognized")
)

// UserStore — часть адаптера хранилища, нужная для определения роли.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CreateIfAbsent(ctx context.Context, u *models.User) (bool, error)
}

type Resolver struct {
	users UserStore
	log   *zap.Logger
}

func NewResolver(users UserStore, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{users: users, log: log}
}

// ResolveOrCreateRole возвращает роль уже аутентифицированного пользователя.
// Если записи нет, создаёт её с ролью worker. Одновременный первый вход с одним
// identity безопасен: уникальный индекс + ON CONFLICT DO NOTHING, выигрывает
// запись, которая уже есть.
func (r *Resolver) ResolveOrCreateRole(ctx context.Context, identity string) (models.UserRole, error) {
	u, err := r.users.FindByUsername(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("look up user: %w", err)
	}
	if u != nil {
		if !u.IsActive {
			return "", ErrAccountDeactivated
		}
		if !u.Role.Valid() {
			return "", fmt.Errorf("%w: %q", ErrUnknownRole, u.Role)
		}
		return u.Role, nil
	}

	inserted, err := r.users.CreateIfAbsent(ctx, &models.User{
		Username: identity,
		Role:     models.RoleWorker,
		IsActive: true,
	})
	if err != nil {
		return "", fmt.Errorf("provision user: %w", err)
	}
	if inserted {
		r.log.Info("provisioned default role", zap.String("identity", identity), zap.String("role", string(models.RoleWorker)))
	}
	return models.RoleWorker, nil
}

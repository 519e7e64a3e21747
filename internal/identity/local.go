package identity

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pigfarm-manager/internal/models"
)

type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CreateIfAbsent(ctx context.Context, u *models.User) (bool, error)
}

// Local проверяет пароль по bcrypt-хешу из таблицы users.
// Для разработки и тестов, когда внешний провайдер недоступен.
type Local struct {
	store CredentialStore
	cost  int
}

func NewLocal(store CredentialStore) *Local {
	return &Local{store: store, cost: bcrypt.DefaultCost}
}

func (p *Local) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	u, err := p.store.FindByUsername(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up credentials: %w", err)
	}
	if u == nil || u.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Email: u.Username}, nil
}

// SignUp заводит учётные данные. Роль назначит Resolver при первом входе,
// здесь создаётся запись worker, как и при автопровижининге.
func (p *Local) SignUp(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	inserted, err := p.store.CreateIfAbsent(ctx, &models.User{
		Username:     email,
		PasswordHash: &h,
		Role:         models.RoleWorker,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}
	if !inserted {
		return ErrAlreadyRegistered
	}
	return nil
}

func (p *Local) SignOut(context.Context, string) error { return nil }

// Package identity — адаптеры внешнего провайдера аутентификации.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyRegistered  = errors.New("user already registered")
)

// Identity — результат успешного входа.
type Identity struct {
	Email string
	Token string // токен сессии провайдера, может быть пустым
}

type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context, token string) error
}

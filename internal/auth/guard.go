package auth

import (
	"errors"
	"slices"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/session"
)

var (
	ErrNoSession    = errors.New("not signed in")
	ErrAccessDenied = errors.New("access denied")
)

// Require проверяет, что сессия есть и её роль входит в allowed.
// Пустой allowed означает «любой вошедший пользователь».
func Require(st *session.State, allowed ...models.UserRole) error {
	if st == nil {
		return ErrNoSession
	}
	if len(allowed) == 0 {
		return nil
	}
	if !slices.Contains(allowed, st.Role) {
		return ErrAccessDenied
	}
	return nil
}

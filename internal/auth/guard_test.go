package auth

import (
	"errors"
	"testing"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/session"
)

func TestRequire(t *testing.T) {
	worker := &session.State{Email: "w@farm.test", Role: models.RoleWorker}
	admin := &session.State{Email: "a@farm.test", Role: models.RoleAdmin}

	tests := []struct {
		name    string
		state   *session.State
		allowed []models.UserRole
		want    error
	}{
		{"no session", nil, []models.UserRole{models.RoleAdmin}, ErrNoSession},
		{"no session, any role", nil, nil, ErrNoSession},
		{"worker on admin page", worker, []models.UserRole{models.RoleAdmin}, ErrAccessDenied},
		{"admin on admin page", admin, []models.UserRole{models.RoleAdmin}, nil},
		{"worker on shared page", worker, []models.UserRole{models.RoleWorker, models.RoleManager, models.RoleAdmin}, nil},
		{"any signed-in user", worker, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Require(tt.state, tt.allowed...); !errors.Is(err, tt.want) {
				t.Fatalf("Require = %v, want %v", err, tt.want)
			}
		})
	}
}

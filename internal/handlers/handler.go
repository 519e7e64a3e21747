package handlers

import (
	"go.uber.org/zap"

	"pigfarm-manager/internal/admin"
	"pigfarm-manager/internal/auth"
	"pigfarm-manager/internal/database"
	"pigfarm-manager/internal/identity"
	"pigfarm-manager/internal/repository"
	"pigfarm-manager/internal/session"
)

// Handler собирает зависимости HTTP-обработчиков.
type Handler struct {
	Provider identity.Provider
	Resolver *auth.Resolver
	Sessions *session.Manager
	Admin    *admin.Service
	Records  *repository.Records
	Audit    *database.Audit
	Log      *zap.Logger
}

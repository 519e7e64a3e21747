package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pigfarm-manager/internal/config"
	"pigfarm-manager/internal/handlers"
	"pigfarm-manager/internal/middleware"
	"pigfarm-manager/internal/models"
)

const sessionCookie = "pigfarm_session"

func NewRouter(cfg *config.Config, h *handlers.Handler, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.Metrics())

	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookie, store))
	r.Use(middleware.InjectSession(h.Sessions))

	// СЛУЖЕБНОЕ
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// AUTH
	limiter := middleware.NewIPRateLimiter(cfg.Auth.SignInRate, cfg.Auth.SignInBurst)
	r.POST("/auth/signin", middleware.RateLimit(limiter), h.SignIn)
	r.POST("/auth/signup", middleware.RateLimit(limiter), h.SignUp)
	r.POST("/auth/signout", h.SignOut)

	authed := r.Group("/")
	authed.Use(middleware.RequireAuth())

	authed.GET("/me", h.Me)

	// ЗАПИСИ И OFFLINE-ОЧЕРЕДЬ
	authed.POST("/records/:table", h.WriteRecord)
	authed.GET("/offline", h.ListOffline)
	authed.POST("/offline/flush", h.FlushOffline)
	authed.DELETE("/offline", h.ClearOffline)
	authed.DELETE("/offline/:pos", h.DiscardOffline)

	// АДМИНКА
	adm := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adm.GET("/users", h.ListUsers)
	adm.POST("/users", h.AddUser)
	adm.POST("/users/:username/password", h.ChangePassword)
	adm.POST("/users/:username/role", h.SetRole)
	adm.POST("/users/:username/active", h.SetActive)

	// АУДИТ
	authed.GET("/audit",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		h.ListAuditLogs,
	)

	return r
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pigfarm-manager/internal/admin"
	"pigfarm-manager/internal/auth"
	"pigfarm-manager/internal/config"
	"pigfarm-manager/internal/database"
	"pigfarm-manager/internal/handlers"
	"pigfarm-manager/internal/identity"
	"pigfarm-manager/internal/logger"
	"pigfarm-manager/internal/offline"
	"pigfarm-manager/internal/repository"
	"pigfarm-manager/internal/server"
	"pigfarm-manager/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, sync := logger.New(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		Rotate: logger.Rotate{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		},
	})
	defer sync()

	if err := run(cfg, lg); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
		sync()
		log.Fatal(err)
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		ConnectAttempts:    cfg.DB.ConnectAttempts,
		LogLevel:           cfg.DB.LogLevel,
	}, lg)
	if err != nil {
		return err
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := database.EnsureInitialAdmin(ctx, db, lg, cfg.InitialAdmin.Username, cfg.InitialAdmin.Password); err != nil {
		return err
	}

	users := repository.NewUsers(db)
	adminSvc, err := admin.NewService(users, lg.Named("admin"))
	if err != nil {
		return fmt.Errorf("admin service: %w", err)
	}

	var provider identity.Provider
	switch cfg.Auth.Provider {
	case "gotrue":
		provider = identity.NewGoTrue(identity.GoTrueOptions{
			URL:       cfg.Auth.URL,
			APIKey:    cfg.Auth.APIKey,
			JWTSecret: cfg.Auth.JWTSecret,
			Timeout:   time.Duration(cfg.Auth.Timeout) * time.Second,
		})
	default:
		provider = identity.NewLocal(users)
	}

	audit := database.NewAudit(db, lg.Named("audit"))
	sessions := session.NewManager(time.Duration(cfg.Session.MaxIdle)*time.Second, lg.Named("session"),
		session.WithQueueNotifier(func(email string) offline.Notifier {
			return offline.NotifierFunc(func(m offline.Mutation) {
				audit.Record(context.Background(), email, "offline_queue", m.Target, "defer", string(m.Action))
			})
		}),
	)
	h := &handlers.Handler{
		Provider: provider,
		Resolver: auth.NewResolver(users, lg.Named("auth")),
		Sessions: sessions,
		Admin:    adminSvc,
		Records:  repository.NewRecords(db, cfg.RecordTables).WithConflictKeys("pigs", "tag").WithConflictKeys("invoices", "number"),
		Audit:    audit,
		Log:      lg,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.NewRouter(cfg, h, lg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("starting server", zap.String("addr", srv.Addr), zap.String("auth_provider", cfg.Auth.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					lg.Info("expired sessions removed", zap.Int("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return nil
	})

	return g.Wait()
}

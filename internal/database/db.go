package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"pigfarm-manager/internal/models"
)

type Opts struct {
	Driver             string // postgres | mysql | sqlite
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	ConnectAttempts    int
	RetryDelay         time.Duration
	LogLevel           string
}

// Open подключается к БД, повторяя попытки: при старте в docker-compose база
// часто поднимается позже приложения.
func Open(o Opts, log *zap.Logger) (*gorm.DB, error) {
	dial, err := dialector(o.Driver, o.DSN)
	if err != nil {
		return nil, err
	}

	attempts := o.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := o.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var db *gorm.DB
	for i := 1; i <= attempts; i++ {
		log.Info("connecting to db", zap.String("driver", o.Driver), zap.Int("attempt", i), zap.Int("of", attempts))

		db, err = gorm.Open(dial, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormLogLevel(o.LogLevel)),
		})
		if err == nil {
			break
		}

		log.Warn("failed to connect to db", zap.Error(err))
		if i < attempts {
			time.Sleep(delay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to db after %d attempts: %w", attempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	}

	log.Info("connected to db", zap.String("driver", o.Driver))
	return db, nil
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

func gormLogLevel(s string) gormlogger.LogLevel {
	switch s {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Migrate создаёт/обновляет схему. Источник истины — внешняя БД,
// автомиграция нужна для локального запуска и тестов.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.Organization{},
		&models.Pig{},
		&models.FeedLog{},
		&models.Invoice{},
	)
}

// EnsureInitialAdmin создаёт администратора, если в системе нет ни одного.
// Пустой пароль — пропускаем: админа заведут вручную.
func EnsureInitialAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger, username, password string) error {
	if password == "" {
		log.Warn("ADMIN_PASSWORD is not set, skipping initial admin")
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash initial admin password: %w", err)
	}
	h := string(hash)

	admin := models.User{
		Username:     username,
		PasswordHash: &h,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&admin)
	if res.Error != nil {
		return fmt.Errorf("create initial admin: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// имя занято не-админом; роль не трогаем, админа назначат вручную
		log.Warn("initial admin username already taken, skipping", zap.String("username", username))
		return nil
	}

	log.Info("created initial admin user", zap.String("username", username))
	return nil
}

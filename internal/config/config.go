package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	Server struct {
		Port            string   `env:"PORT" envDefault:"8080"`
		ReadTimeout     int      `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int      `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int      `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int      `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		CORSOrigins     []string `env:"CORS_ORIGINS" envSeparator:","`
	} `envPrefix:"SERVER_"`

	Session struct {
		Secret  string `env:"SECRET,required,notEmpty"`
		MaxAge  int    `env:"MAX_AGE" envDefault:"43200"` // 12 часов
		MaxIdle int    `env:"MAX_IDLE" envDefault:"7200"`
		Secure  bool   `env:"SECURE" envDefault:"false"`
	} `envPrefix:"SESSION_"`

	DB struct {
		Driver             string `env:"DRIVER" envDefault:"postgres"`
		DSN                string `env:"DSN,required,notEmpty"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetimeMin int    `env:"CONN_MAX_LIFETIME_MIN" envDefault:"30"`
		ConnectAttempts    int    `env:"CONNECT_ATTEMPTS" envDefault:"10"`
		AutoMigrate        bool   `env:"AUTO_MIGRATE" envDefault:"true"`
		LogLevel           string `env:"LOG_LEVEL" envDefault:"warn"`
	} `envPrefix:"DB_"`

	Log struct {
		Level      string `env:"LEVEL" envDefault:"info"`
		JSON       bool   `env:"JSON" envDefault:"false"`
		File       string `env:"FILE"`
		MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"100"`
		MaxBackups int    `env:"MAX_BACKUPS" envDefault:"7"`
		MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"30"`
	} `envPrefix:"LOG_"`

	Auth struct {
		Provider    string  `env:"PROVIDER" envDefault:"local"` // local | gotrue
		URL         string  `env:"URL"`
		APIKey      string  `env:"API_KEY"`
		JWTSecret   string  `env:"JWT_SECRET"`
		Timeout     int     `env:"TIMEOUT" envDefault:"10"`
		SignInRate  float64 `env:"SIGNIN_RATE" envDefault:"1"`
		SignInBurst int     `env:"SIGNIN_BURST" envDefault:"5"`
	} `envPrefix:"AUTH_"`

	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin@pigfarm.local"`
		Password string `env:"PASSWORD"`
	} `envPrefix:"ADMIN_"`

	// таблицы, в которые разрешено писать через /records и offline-очередь
	RecordTables []string `env:"RECORD_TABLES" envSeparator:"," envDefault:"pigs,feed_logs,invoices"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// первая ошибка читается лучше, чем весь список
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch cfg.Auth.Provider {
	case "local":
	case "gotrue":
		if cfg.Auth.URL == "" || cfg.Auth.APIKey == "" {
			return nil, fmt.Errorf("AUTH_URL and AUTH_API_KEY are required for the gotrue provider")
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.Auth.Provider)
	}

	return cfg, nil
}

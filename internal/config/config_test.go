package config

import (
	"reflect"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("DB_DSN", "file:test?mode=memory")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.DB.Driver != "postgres" || cfg.Auth.Provider != "local" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	want := []string{"pigs", "feed_logs", "invoices"}
	if !reflect.DeepEqual(cfg.RecordTables, want) {
		t.Fatalf("record tables = %v, want %v", cfg.RecordTables, want)
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("DB_DSN", "x")
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is empty")
	}
}

func TestLoad_GoTrueNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_PROVIDER", "gotrue")
	t.Setenv("AUTH_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for gotrue without url")
	}

	t.Setenv("AUTH_URL", "http://localhost:9999")
	t.Setenv("AUTH_API_KEY", "anon")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with gotrue settings: %v", err)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_PROVIDER", "ldap")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

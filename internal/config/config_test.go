package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "valid full config",
			yaml: `
discord:
  token: "test-token"
  guild_id: "123456"
database:
  host: "db.example.com"
  port: 5433
  user: "hypebid"
  password: "secret"
  dbname: "hypebid"
  sslmode: "require"
  driver: "postgres"
api:
  base_url: "https://api.hypebid.example/api/user"
  timeout: 5s
server:
  port: 9090
views:
  idle_ttl: 30m
telemetry:
  service_name: "my-bot"
  otlp_endpoint: "localhost:4318"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Discord.Token != "test-token" {
					t.Errorf("got token %q, want %q", cfg.Discord.Token, "test-token")
				}
				if cfg.Database.Port != 5433 {
					t.Errorf("got db port %d, want %d", cfg.Database.Port, 5433)
				}
				if cfg.Server.Port != 9090 {
					t.Errorf("got server port %d, want %d", cfg.Server.Port, 9090)
				}
				if cfg.Telemetry.ServiceName != "my-bot" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "my-bot")
				}
				if cfg.API.BaseURL != "https://api.hypebid.example/api/user" {
					t.Errorf("got api base url %q", cfg.API.BaseURL)
				}
				if cfg.API.Timeout != 5*time.Second {
					t.Errorf("got api timeout %s, want 5s", cfg.API.Timeout)
				}
				if cfg.Views.IdleTTL != 30*time.Minute {
					t.Errorf("got idle ttl %s, want 30m", cfg.Views.IdleTTL)
				}
			},
		},
		{
			name: "defaults applied",
			yaml: `
discord:
  token: "tok"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Database.Host != "localhost" {
					t.Errorf("got db host %q, want %q", cfg.Database.Host, "localhost")
				}
				if cfg.Database.Port != 5432 {
					t.Errorf("got db port %d, want %d", cfg.Database.Port, 5432)
				}
				if cfg.Server.Port != 8080 {
					t.Errorf("got server port %d, want %d", cfg.Server.Port, 8080)
				}
				if cfg.Telemetry.ServiceName != "hypebidbot" {
					t.Errorf("got service name %q, want %q", cfg.Telemetry.ServiceName, "hypebidbot")
				}
				if cfg.API.Timeout != 15*time.Second {
					t.Errorf("got api timeout %s, want 15s", cfg.API.Timeout)
				}
				if cfg.Views.IdleTTL != 15*time.Minute {
					t.Errorf("got idle ttl %s, want 15m", cfg.Views.IdleTTL)
				}
			},
		},
		{
			name:    "invalid yaml",
			yaml:    `{{{invalid`,
			wantErr: true,
		},
		{
			name: "memory driver accepted",
			yaml: `
discord:
  token: "tok"
database:
  driver: "memory"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Database.Driver != "memory" {
					t.Errorf("got driver %q, want %q", cfg.Database.Driver, "memory")
				}
			},
		},
		{
			name: "relative api url rejected",
			yaml: `
api:
  base_url: "/api/user"
`,
			wantErr: true,
		},
		{
			name: "zero idle ttl rejected",
			yaml: `
views:
  idle_ttl: 0s
`,
			wantErr: true,
		},
		{
			name: "invalid driver rejected",
			yaml: `
discord:
  token: "tok"
database:
  driver: "mongodb"
`,
			wantErr: true,
		},
		{
			name: "default driver is postgres",
			yaml: `
discord:
  token: "tok"
`,
			wantErr: false,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				if cfg.Database.Driver != "postgres" {
					t.Errorf("got driver %q, want %q", cfg.Database.Driver, "postgres")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := config.Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && cfg != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := config.Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}
	want := "host=localhost port=5432 user=user password=pass dbname=testdb sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

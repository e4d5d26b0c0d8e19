package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, env := range []string{"PORT", "DATABASE_URL", "DB_DRIVER", "JWT_SECRET", "APP_APP_ENV", "APP_HTTP_PORT"} {
		t.Setenv(env, "")
	}

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != "3000" || c.Database.Driver != "postgres" || c.App.Env != "dev" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.JWT.TTL != 24*time.Hour {
		t.Fatalf("JWT.TTL = %v, want 24h", c.JWT.TTL)
	}
	if !c.Metrics.Enabled {
		t.Fatalf("metrics should be enabled by default")
	}
}

func TestLoadLegacyEnvNames(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://pricing@localhost/pricing")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != "8081" || c.Database.DSN != "postgres://pricing@localhost/pricing" || c.Database.Driver != "sqlite" || c.JWT.Secret != "s3cret" {
		t.Fatalf("legacy env not applied: %+v", c)
	}
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_JWT_TTL", "2h")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTP.Port != "9090" {
		t.Fatalf("HTTP.Port = %q, want 9090", c.HTTP.Port)
	}
	if c.JWT.TTL != 2*time.Hour {
		t.Fatalf("JWT.TTL = %v, want 2h", c.JWT.TTL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	yaml := "app:\n  env: prod\njwt:\n  secret: from-file\nmetrics:\n  enabled: false\ndatabase:\n  driver: sqlite\n  dsn: pricing.db\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.Env != "prod" || c.JWT.Secret != "from-file" || c.Metrics.Enabled || c.Database.DSN != "pricing.db" {
		t.Fatalf("file values not applied: %+v", c)
	}
}

func TestLoadRequiresSecretOutsideDev(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_APP_ENV", "prod")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error without a jwt secret in prod")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

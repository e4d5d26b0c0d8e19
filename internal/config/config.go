package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env  string
		Name string
	} `mapstructure:"app"`

	HTTP struct {
		Port        string
		CORSOrigins string `mapstructure:"cors_origins"`
	} `mapstructure:"http"`

	Database struct {
		Driver       string
		DSN          string
		MaxIdleConns int  `mapstructure:"max_idle_conns"`
		MaxOpenConns int  `mapstructure:"max_open_conns"`
		Debug        bool `mapstructure:"debug"`
	} `mapstructure:"database"`

	JWT struct {
		Secret string
		TTL    time.Duration `mapstructure:"ttl"`
		Issuer string
	} `mapstructure:"jwt"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Load reads .env (if any), the optional YAML file at path and the
// environment. APP_* variables override everything, e.g. APP_HTTP_PORT;
// the plain PORT, DATABASE_URL, DB_DRIVER and JWT_SECRET still work.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.name", "Artisan Pricing v1.0")
	v.SetDefault("http.port", "3000")
	v.SetDefault("http.cors_origins", "*")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.debug", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("jwt.issuer", "go-artisan-pricing")
	v.SetDefault("metrics.enabled", true)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	legacy := map[string]string{
		"http.port":       "PORT",
		"database.dsn":    "DATABASE_URL",
		"database.driver": "DB_DRIVER",
		"jwt.secret":      "JWT_SECRET",
	}
	for key, env := range legacy {
		prefixed := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if c.JWT.Secret == "" && c.App.Env != "dev" {
		return c, fmt.Errorf("jwt secret must be set outside dev")
	}
	return c, nil
}

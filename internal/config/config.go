package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Store    StoreConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	AppEnv      string
	Port        string
	StaticDir   string
	CORSOrigins string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type DatabaseConfig struct {
	Driver   string // sqlite, postgres, mysql
	Path     string // sqlite file
	URL      string // DSN for postgres / mysql
	LogLevel string
}

// StoreConfig holds shop-level settings used by the services.
type StoreConfig struct {
	Timezone          string
	DefaultUnit       string
	LowStockThreshold int
}

type AuthConfig struct {
	Enabled       bool
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

// Location resolves Store.Timezone, falling back to UTC+7 when tzdata is missing.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3001")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "data/pos.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("TIMEZONE", "Asia/Bangkok")
	v.SetDefault("DEFAULT_UNIT", "ชิ้น")
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("ADMIN_EMAIL", "admin@pos.local")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	port := strings.TrimPrefix(v.GetString("PORT"), ":")

	return &Config{
		Server: ServerConfig{
			AppEnv:      v.GetString("APP_ENV"),
			Port:        port,
			StaticDir:   v.GetString("STATIC_DIR"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		Logger: LoggerConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			Path:     v.GetString("DB_PATH"),
			URL:      v.GetString("DATABASE_URL"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Store: StoreConfig{
			Timezone:          v.GetString("TIMEZONE"),
			DefaultUnit:       v.GetString("DEFAULT_UNIT"),
			LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		},
		Auth: AuthConfig{
			Enabled:       v.GetBool("AUTH_ENABLED"),
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
	}
}

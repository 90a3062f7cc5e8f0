package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// PublicBaseURL is the externally reachable base used to build the
	// verification links mailed to users.
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`

	// ForgotPasswordRedirectURL is the frontend page the reset token is
	// appended to.
	ForgotPasswordRedirectURL string `env:"FORGOT_PASSWORD_REDIRECT_URL, default=http://localhost:5173/reset-password"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	Mail  MailConfig
}

type AuthConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_EXPIRY,  default=15m"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_EXPIRY, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=mrmanager"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM, default=no-reply@mrmanager.app"`
}

type MailConfig struct {
	Workers int `env:"MAIL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

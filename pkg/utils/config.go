package utils

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AMQP      AMQPConfig
	CORS      CORSConfig
	Cron      CronConfig
	Seed      SeedConfig
	Storage   StorageConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
	Migrate  bool
}

type JWTConfig struct {
	Secret             string
	Issuer             string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	RememberAccessTTL  time.Duration
	RememberRefreshTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitRule struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	Block          time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	Prefix  string
	General RateLimitRule
	Auth    RateLimitRule
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

type CORSConfig struct {
	Origins []string
}

type CronConfig struct {
	SessionCleanup string
}

// StorageConfig places uploaded images. BaseURL prefixes the stored key in
// poster_url and must resolve to the /uploads route.
type StorageConfig struct {
	Dir     string
	BaseURL string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "cinema-backoffice")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", false)

	viper.SetDefault("JWT_ISSUER", "cinema-backoffice")
	viper.SetDefault("JWT_ACCESS_TTL", "2h")
	viper.SetDefault("JWT_REFRESH_TTL", "168h")
	viper.SetDefault("JWT_REMEMBER_ACCESS_TTL", "720h")
	viper.SetDefault("JWT_REMEMBER_REFRESH_TTL", "720h")

	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_PREFIX", "rl")
	viper.SetDefault("RATE_LIMIT_GENERAL_CAPACITY", 100)
	viper.SetDefault("RATE_LIMIT_GENERAL_INTERVAL", "60s")
	viper.SetDefault("RATE_LIMIT_AUTH_CAPACITY", 5)
	viper.SetDefault("RATE_LIMIT_AUTH_INTERVAL", "60s")
	viper.SetDefault("RATE_LIMIT_AUTH_BLOCK", "5m")

	viper.SetDefault("AMQP_EXCHANGE", "cinema.events")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CRON_SESSION_CLEANUP", "@hourly")
	viper.SetDefault("SEED_ADMIN_NAME", "Super Admin")
	viper.SetDefault("STORAGE_DIR", "uploads")
	viper.SetDefault("STORAGE_BASE_URL", "/uploads")

	// .env is optional, environment variables alone are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			Issuer:             viper.GetString("JWT_ISSUER"),
			AccessTTL:          viper.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL:         viper.GetDuration("JWT_REFRESH_TTL"),
			RememberAccessTTL:  viper.GetDuration("JWT_REMEMBER_ACCESS_TTL"),
			RememberRefreshTTL: viper.GetDuration("JWT_REMEMBER_REFRESH_TTL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled: viper.GetBool("RATE_LIMIT_ENABLED"),
			Prefix:  viper.GetString("RATE_LIMIT_PREFIX"),
			General: RateLimitRule{
				Capacity:       viper.GetInt("RATE_LIMIT_GENERAL_CAPACITY"),
				RefillTokens:   viper.GetInt("RATE_LIMIT_GENERAL_CAPACITY"),
				RefillInterval: viper.GetDuration("RATE_LIMIT_GENERAL_INTERVAL"),
			},
			Auth: RateLimitRule{
				Capacity:       viper.GetInt("RATE_LIMIT_AUTH_CAPACITY"),
				RefillTokens:   viper.GetInt("RATE_LIMIT_AUTH_CAPACITY"),
				RefillInterval: viper.GetDuration("RATE_LIMIT_AUTH_INTERVAL"),
				Block:          viper.GetDuration("RATE_LIMIT_AUTH_BLOCK"),
			},
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		CORS: CORSConfig{
			Origins: SplitCSV(viper.GetString("CORS_ORIGINS")),
		},
		Cron: CronConfig{
			SessionCleanup: viper.GetString("CRON_SESSION_CLEANUP"),
		},
		Seed: SeedConfig{
			AdminEmail:    viper.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: viper.GetString("SEED_ADMIN_PASSWORD"),
			AdminName:     viper.GetString("SEED_ADMIN_NAME"),
		},
		Storage: StorageConfig{
			Dir:     viper.GetString("STORAGE_DIR"),
			BaseURL: viper.GetString("STORAGE_BASE_URL"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

// DSN builds a pgx connection string.
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	LogMode       string `env:"LOG_MODE" envDefault:"development"`
	TimeZone      string `env:"TIME_ZONE" envDefault:"Europe/Moscow"`
	ReportsDir    string `env:"REPORTS_DIR" envDefault:"reports"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Admin    AdminConfig    `envPrefix:"ADMIN_"`
	Orders   OrdersConfig   `envPrefix:"ORDERS_"`
}

type DatabaseConfig struct {
	Host            string        `env:"HOST,required"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER,required"`
	Password        string        `env:"PASSWORD,required"`
	Name            string        `env:"NAME,required"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"2m"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"2m"`
}

type RedisConfig struct {
	Addr       string        `env:"ADDR,required"`
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CacheTTL   time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

type AdminConfig struct {
	IDs    []int64 `env:"IDS" envSeparator:","`
	ChatID int64   `env:"CHAT_ID"`
}

type OrdersConfig struct {
	RateLimit  int64         `env:"RATE_LIMIT" envDefault:"3"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1h"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}

	return &cfg, nil
}

// Location returns the time zone customers pick dates in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == chatID {
			return true
		}
	}
	return false
}

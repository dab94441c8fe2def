package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"skyhunt/internal/repository"
	"skyhunt/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPath  = "./"
	configName   = "config"
	configFormat = "yaml"
	envPrefix    = "APP"
)

type Config struct {
	Server  ServerConfig      `mapstructure:"server"`
	Storage repository.Config `mapstructure:"storage"`
	Session SessionConfig     `mapstructure:"session"`
	Coupon  CouponConfig      `mapstructure:"coupon"`

	Log logger.Config `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type SessionConfig struct {
	CookieName   string        `mapstructure:"cookieName"`
	CookieMaxAge time.Duration `mapstructure:"cookieMaxAge"`
	SecureCookie bool          `mapstructure:"secureCookie"`
}

type CouponConfig struct {
	ValidityDays int    `mapstructure:"validityDays"`
	Timezone     string `mapstructure:"timezone"`
}

func (c CouponConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("storage.driver", repository.DriverMemory)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", "5432")
	v.SetDefault("storage.database.user", "postgres")
	v.SetDefault("storage.database.password", "")
	v.SetDefault("storage.database.name", "skyhunt")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "skyhunt:")

	v.SetDefault("session.cookieName", "profile_id")
	v.SetDefault("session.cookieMaxAge", 365*24*time.Hour)

	v.SetDefault("coupon.validityDays", 30)
	v.SetDefault("coupon.timezone", "Asia/Seoul")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatJSON)
	v.SetDefault("log.output", "stderr")
}

// Load reads config.yaml from path. A missing file is not an error: defaults
// and APP_* environment variables are enough to run with the memory store.
func Load(path string) (*Config, error) {
	// .env is optional in every environment
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(path)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HoursConfig struct {
	OpenHour     int           `mapstructure:"open_hour"`
	CloseHour    int           `mapstructure:"close_hour"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type StorageConfig struct {
	Backend     string `mapstructure:"backend"` // file, memory, redis, postgres, s3
	Dir         string `mapstructure:"dir"`
	RedisURL    string `mapstructure:"redis_url"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Prefix    string `mapstructure:"s3_prefix"`
}

type CatalogConfig struct {
	Source      string `mapstructure:"source"` // file, faker, postgres
	Path        string `mapstructure:"path"`
	Seed        int64  `mapstructure:"seed"`
	Size        int    `mapstructure:"size"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type DispatchConfig struct {
	Channel         string   `mapstructure:"channel"` // deeplink, kafka
	Phone           string   `mapstructure:"phone"`
	ContactPhone    string   `mapstructure:"contact_phone"`
	FloatingPhone   string   `mapstructure:"floating_phone"`
	Opener          string   `mapstructure:"opener"` // browser, log
	KafkaBrokerList []string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string   `mapstructure:"kafka_topic"`
	RequireAck      bool     `mapstructure:"require_ack"`
}

type PaymentConfig struct {
	QRValue string `mapstructure:"qr_value"`
}

type LocationConfig struct {
	Resolver  string  `mapstructure:"resolver"` // static, none
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Profile    string         `mapstructure:"profile"`
	Hours      HoursConfig    `mapstructure:"hours"`
	Storage    StorageConfig  `mapstructure:"storage"`
	Catalog    CatalogConfig  `mapstructure:"catalog"`
	Dispatch   DispatchConfig `mapstructure:"dispatch"`
	Payment    PaymentConfig  `mapstructure:"payment"`
	Location   LocationConfig `mapstructure:"location"`
	Server     ServerConfig   `mapstructure:"server"`
	PopupDelay time.Duration  `mapstructure:"popup_delay"`
}

// SetDefaults registers the values used when neither the config file nor the environment sets a key.
func SetDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("profile", "default")

	v.SetDefault("hours.open_hour", 10)
	v.SetDefault("hours.close_hour", 23)
	v.SetDefault("hours.poll_interval", "60s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", filepath.Join(home, ".besteats"))
	v.SetDefault("storage.redis_url", "redis://localhost:6379/0")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_prefix", "profiles")

	v.SetDefault("catalog.source", "faker")
	v.SetDefault("catalog.seed", 42)
	v.SetDefault("catalog.size", 24)

	v.SetDefault("dispatch.channel", "deeplink")
	v.SetDefault("dispatch.phone", "963111111111")
	v.SetDefault("dispatch.contact_phone", "1234567890")
	v.SetDefault("dispatch.floating_phone", "49123456789")
	v.SetDefault("dispatch.opener", "browser")
	v.SetDefault("dispatch.kafka_broker_list", "localhost:9092")
	v.SetDefault("dispatch.kafka_topic", "orders")
	v.SetDefault("dispatch.require_ack", false)

	v.SetDefault("payment.qr_value", "48646216546511658468")

	v.SetDefault("location.resolver", "none")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("popup_delay", "2200ms")
}

// LoadConfig reads the config file (if any), the BESTEATS_* environment and the defaults.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".besteats")
	}

	v.SetEnvPrefix("besteats")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) Validate() error {
	if cfg.Hours.OpenHour < 0 || cfg.Hours.OpenHour > 23 {
		return fmt.Errorf("hours.open_hour must be within 0-23, got %d", cfg.Hours.OpenHour)
	}
	if cfg.Hours.CloseHour < 0 || cfg.Hours.CloseHour > 24 {
		return fmt.Errorf("hours.close_hour must be within 0-24, got %d", cfg.Hours.CloseHour)
	}
	if cfg.Hours.PollInterval <= 0 {
		return fmt.Errorf("hours.poll_interval must be positive")
	}
	if strings.TrimSpace(cfg.Dispatch.Phone) == "" {
		return fmt.Errorf("dispatch.phone is required")
	}
	if strings.TrimSpace(cfg.Profile) == "" {
		return fmt.Errorf("profile is required")
	}
	return nil
}

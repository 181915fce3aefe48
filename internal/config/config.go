package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Env             string        `mapstructure:"env"`
	Port            int           `mapstructure:"port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	ClientURL       string        `mapstructure:"client_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTCfg struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type GoogleCfg struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type KafkaCfg struct {
	Brokers   []string `mapstructure:"brokers"`
	ChatTopic string   `mapstructure:"chat_topic"`
	Enabled   bool     `mapstructure:"enabled"`
}

type LocationsCfg struct {
	APIBaseURL string `mapstructure:"api_base_url"`
}

type RateLimitCfg struct {
	PerMinute int `mapstructure:"per_minute"`
}

type Config struct {
	App       AppCfg       `mapstructure:"app"`
	Mongo     MongoCfg     `mapstructure:"mongodb"`
	Redis     RedisCfg     `mapstructure:"redis"`
	JWT       JWTCfg       `mapstructure:"jwt"`
	Google    GoogleCfg    `mapstructure:"google"`
	Kafka     KafkaCfg     `mapstructure:"kafka"`
	Locations LocationsCfg `mapstructure:"locations"`
	RateLimit RateLimitCfg `mapstructure:"rate_limit"`
}

// Load reads config.yaml (path optional) with APP_* env overrides,
// e.g. APP_MONGODB_URI, APP_JWT_SECRET.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 3000
	}
	if cfg.App.MetricsPort == 0 {
		cfg.App.MetricsPort = 9100
	}
	if cfg.App.ClientURL == "" {
		cfg.App.ClientURL = "http://localhost:4200"
	}
	if cfg.App.ShutdownTimeout == 0 {
		cfg.App.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "portal"
	}
	if cfg.JWT.AccessTokenTTL == 0 {
		cfg.JWT.AccessTokenTTL = time.Hour
	}
	if cfg.JWT.RefreshTokenTTL == 0 {
		cfg.JWT.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Kafka.ChatTopic == "" {
		cfg.Kafka.ChatTopic = "portal.chat.events"
	}
	if cfg.Locations.APIBaseURL == "" {
		cfg.Locations.APIBaseURL = "https://provinces.open-api.vn/api"
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 60
	}
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Line        LineConfig        `yaml:"line"`
	Weather     WeatherConfig     `yaml:"weather"`
	Bot         BotConfig         `yaml:"bot"`
	Push        PushConfig        `yaml:"push"`
	DeliveryLog DeliveryLogConfig `yaml:"deliveryLog"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// LineConfig carries the messaging platform credentials and endpoints.
// Empty credentials are tolerated: signature verification fails closed and
// outbound sends become no-ops instead of crashing the request path.
type LineConfig struct {
	ChannelSecret      string `yaml:"channelSecret"`
	ChannelAccessToken string `yaml:"channelAccessToken"`
	APIBaseURL         string `yaml:"apiBaseUrl"`
	RecipientID        string `yaml:"recipientId"`
}

// WeatherConfig drives the forecast client and its retry/fallback policy.
type WeatherConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	Latitude         float64       `yaml:"latitude"`
	Longitude        float64       `yaml:"longitude"`
	Timezone         string        `yaml:"timezone"`
	MaxAttempts      int           `yaml:"maxAttempts"`
	RetryDelay       time.Duration `yaml:"retryDelay"`
	AttemptTimeout   time.Duration `yaml:"attemptTimeout"`
	ExhaustionPolicy string        `yaml:"exhaustionPolicy"`
	CacheTTL         time.Duration `yaml:"cacheTtl"`
	Valkey           ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the reading cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// BotConfig holds command routing settings.
type BotConfig struct {
	TriggerKeyword string                `yaml:"triggerKeyword"`
	Cities         map[string]Coordinate `yaml:"cities"`
}

// Coordinate is a latitude/longitude pair for a named city.
type Coordinate struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// PushConfig controls the in-process daily broadcast scheduler.
type PushConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

// DeliveryLogConfig contains DSN and pooling settings for the audit log.
type DeliveryLogConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ExhaustionPolicy values accepted by weather.exhaustionPolicy.
const (
	PolicyFallback    = "fallback"
	PolicyUnavailable = "unavailable"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CHANNEL_SECRET"); v != "" {
		cfg.Line.ChannelSecret = v
	}
	if v := os.Getenv("CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelAccessToken = v
	}
	if v := os.Getenv("LINE_API_BASE_URL"); v != "" {
		cfg.Line.APIBaseURL = v
	}
	if v := os.Getenv("USER_ID"); v != "" {
		cfg.Line.RecipientID = v
	}
	if v := os.Getenv("LAT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Weather.Latitude = parsed
		}
	}
	if v := os.Getenv("LON"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Weather.Longitude = parsed
		}
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEZONE"); v != "" {
		cfg.Weather.Timezone = v
	}
	if v := os.Getenv("WEATHER_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Weather.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("WEATHER_RETRY_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.RetryDelay = parsed
		}
	}
	if v := os.Getenv("WEATHER_ATTEMPT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.AttemptTimeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_EXHAUSTION_POLICY"); v != "" {
		cfg.Weather.ExhaustionPolicy = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("WEATHER_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheTTL = parsed
		}
	}
	if v := os.Getenv("WEATHER_VALKEY_ENABLED"); v != "" {
		cfg.Weather.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("WEATHER_VALKEY_ADDR"); v != "" {
		cfg.Weather.Valkey.Addr = v
	}
	if v := os.Getenv("BOT_TRIGGER_KEYWORD"); v != "" {
		cfg.Bot.TriggerKeyword = v
	}
	if v := os.Getenv("PUSH_ENABLED"); v != "" {
		cfg.Push.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("PUSH_SCHEDULE"); v != "" {
		cfg.Push.Schedule = v
	}
	if v := os.Getenv("DELIVERY_LOG_DSN"); v != "" {
		cfg.DeliveryLog.DSN = v
	}
	if v := os.Getenv("DELIVERY_LOG_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.DeliveryLog.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DELIVERY_LOG_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.DeliveryLog.MinConns = int32(parsed)
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Line: LineConfig{
			APIBaseURL: "https://api.line.me",
		},
		Weather: WeatherConfig{
			BaseURL:          "https://api.open-meteo.com/v1/forecast",
			Latitude:         22.63,
			Longitude:        120.30,
			Timezone:         "Asia/Taipei",
			MaxAttempts:      3,
			RetryDelay:       1500 * time.Millisecond,
			AttemptTimeout:   10 * time.Second,
			ExhaustionPolicy: PolicyFallback,
			CacheTTL:         10 * time.Minute,
		},
		Bot: BotConfig{
			TriggerKeyword: "真柏",
			Cities: map[string]Coordinate{
				"高雄": {Latitude: 22.63, Longitude: 120.30},
				"台北": {Latitude: 25.03, Longitude: 121.56},
				"台中": {Latitude: 24.15, Longitude: 120.67},
				"台南": {Latitude: 22.99, Longitude: 120.21},
			},
		},
		Push: PushConfig{
			Enabled:  false,
			Schedule: "0 9 * * *",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Line.APIBaseURL == "" {
		return errors.New("line.apiBaseUrl cannot be empty")
	}
	if c.Weather.BaseURL == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.MaxAttempts <= 0 {
		return errors.New("weather.maxAttempts must be positive")
	}
	if c.Weather.RetryDelay < 0 {
		return errors.New("weather.retryDelay cannot be negative")
	}
	if c.Weather.AttemptTimeout <= 0 {
		return errors.New("weather.attemptTimeout must be positive")
	}
	switch c.Weather.ExhaustionPolicy {
	case PolicyFallback, PolicyUnavailable:
	default:
		return fmt.Errorf("weather.exhaustionPolicy must be %q or %q", PolicyFallback, PolicyUnavailable)
	}
	if c.Weather.CacheTTL < 0 {
		return errors.New("weather.cacheTtl cannot be negative")
	}
	if c.Weather.Valkey.Enabled && strings.TrimSpace(c.Weather.Valkey.Addr) == "" {
		return errors.New("weather.valkey.addr cannot be empty when the cache is enabled")
	}
	if c.Bot.TriggerKeyword == "" {
		return errors.New("bot.triggerKeyword cannot be empty")
	}
	if c.Push.Enabled && strings.TrimSpace(c.Push.Schedule) == "" {
		return errors.New("push.schedule cannot be empty when the scheduler is enabled")
	}
	return nil
}

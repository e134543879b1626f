package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	SwaggerDir      string `yaml:"swagger_dir"`
	AllowedOrigin   string `yaml:"allowed_origin"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	// Driver is one of postgres, mysql or sqlite.
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	// URL, when set, is used verbatim instead of the fields above.
	URL string `yaml:"url"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return d.Name
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
}

type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	TablesTTLSecond int    `yaml:"tables_ttl_seconds"`
}

type KafkaConfig struct {
	Brokers                []string `yaml:"brokers"`
	ReservationEventsTopic string   `yaml:"reservation_events_topic"`
	NotificationsTopic     string   `yaml:"notifications_topic"`
	GroupID                string   `yaml:"group_id"`
}

type RestaurantConfig struct {
	ClosedDays               []string `yaml:"closed_days"`
	OpenTime                 string   `yaml:"open_time"`
	CloseTime                string   `yaml:"close_time"`
	LastSeatingBufferMinutes *int     `yaml:"last_seating_buffer_minutes"`
	Timezone                 string   `yaml:"timezone"`
}

// ValidationRules converts the restaurant section into validation rules.
// Omitted values fall back to validation.DefaultRules.
func (r RestaurantConfig) ValidationRules() (validation.Rules, error) {
	rules := validation.DefaultRules()

	if r.ClosedDays != nil {
		rules.ClosedDays = make([]time.Weekday, 0, len(r.ClosedDays))
		for _, name := range r.ClosedDays {
			day, err := validation.ParseWeekday(name)
			if err != nil {
				return validation.Rules{}, fmt.Errorf("restaurant.closed_days: %w", err)
			}
			rules.ClosedDays = append(rules.ClosedDays, day)
		}
	}
	if r.OpenTime != "" {
		m, err := validation.ParseClock(r.OpenTime)
		if err != nil {
			return validation.Rules{}, fmt.Errorf("restaurant.open_time: %w", err)
		}
		rules.OpenTime = m
	}
	if r.CloseTime != "" {
		m, err := validation.ParseClock(r.CloseTime)
		if err != nil {
			return validation.Rules{}, fmt.Errorf("restaurant.close_time: %w", err)
		}
		rules.CloseTime = m
	}
	if r.LastSeatingBufferMinutes != nil {
		rules.LastSeatingBuffer = *r.LastSeatingBufferMinutes
	}
	if r.Timezone != "" {
		loc, err := time.LoadLocation(r.Timezone)
		if err != nil {
			return validation.Rules{}, fmt.Errorf("restaurant.timezone: %w", err)
		}
		rules.Location = loc
	}
	return rules, nil
}

// LoadConfig reads the YAML file at path, then applies environment overrides
// (a .env file next to the binary is loaded first when present) and defaults.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && os.Getenv("DATABASE_URL") != "":
		// running from environment only
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		c.HTTP.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":5001"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Redis.TablesTTLSecond == 0 {
		c.Redis.TablesTTLSecond = 30
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "reservation-notifier"
	}
}

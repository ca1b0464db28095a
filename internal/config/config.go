package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config — конфигурация сервиса доступности.
// Приоритет: переменные окружения (AVAIL_*) > файл > значения по умолчанию.
type Config struct {
	DB           DBConfig           `mapstructure:"db"`
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	Log          LogConfig          `mapstructure:"log"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	OTel         OTelConfig         `mapstructure:"otel"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Jobs         JobsConfig         `mapstructure:"jobs"`
}

type GRPCConfig struct {
	Addr       string `mapstructure:"addr"`
	Reflection bool   `mapstructure:"reflection"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type OTelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type AvailabilityConfig struct {
	MaxRangeDays    int    `mapstructure:"max_range_days"`
	YieldEvery      int    `mapstructure:"yield_every"`
	DefaultTimeZone string `mapstructure:"default_time_zone"`
	Locale          string `mapstructure:"locale"`
	// MaxPageSize ограничивает page_size в запросе доступности; 0 — без ограничения.
	MaxPageSize int `mapstructure:"max_page_size"`
}

// MaxRange — максимальная длина запрашиваемого окна.
func (c AvailabilityConfig) MaxRange() time.Duration {
	return time.Duration(c.MaxRangeDays) * 24 * time.Hour
}

type JobsConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	PruneCron string        `mapstructure:"prune_cron"`
	Retention time.Duration `mapstructure:"retention"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "postgres")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "booking")
	v.SetDefault("db.password", "booking")
	v.SetDefault("db.name", "booking_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.sqlite_path", "availability.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("grpc.reflection", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "1m")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "schedule.changed")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "availability-service")
	v.SetDefault("otel.endpoint", "jaeger:4317")
	v.SetDefault("otel.sample_ratio", 1.0)

	v.SetDefault("availability.max_range_days", 62)
	v.SetDefault("availability.yield_every", 1000)
	v.SetDefault("availability.max_page_size", 200)
	v.SetDefault("availability.default_time_zone", "UTC")
	v.SetDefault("availability.locale", "ru")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.prune_cron", "0 3 * * *")
	v.SetDefault("jobs.retention", "720h")
	v.SetDefault("jobs.timeout", "5m")
}

// Load читает конфигурацию. Пустой path означает поиск config.yaml в ./config и текущей папке;
// отсутствие файла не ошибка.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AVAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate отсекает заведомо невозможные значения.
func (c *Config) Validate() error {
	if err := c.DB.validate(); err != nil {
		return err
	}
	if c.GRPC.Addr == "" {
		return errors.New("invalid config: grpc.addr must not be empty")
	}
	if c.Availability.MaxRangeDays <= 0 {
		return errors.New("invalid config: availability.max_range_days must be positive")
	}
	if c.Availability.YieldEvery < 0 {
		return errors.New("invalid config: availability.yield_every must not be negative")
	}
	if c.Availability.MaxPageSize < 0 {
		return errors.New("invalid config: availability.max_page_size must not be negative")
	}
	if _, err := time.LoadLocation(c.Availability.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid config: availability.default_time_zone: %w", err)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr must not be empty when redis is enabled")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("invalid config: kafka.topic must not be empty when brokers are set")
	}
	if c.OTel.SampleRatio < 0 || c.OTel.SampleRatio > 1 {
		return errors.New("invalid config: otel.sample_ratio must be within [0, 1]")
	}
	if c.Jobs.Enabled && c.Jobs.Retention < 0 {
		return errors.New("invalid config: jobs.retention must not be negative")
	}
	return nil
}

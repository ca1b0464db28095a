package config

import (
	"fmt"
	"time"
)

type DBConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	TimeZone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifeTime int    `mapstructure:"conn_max_lifetime"` // минут
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// DSN собирает строку подключения для postgres.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

func (c DBConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeTime) * time.Minute
}

func (c DBConfig) validate() error {
	switch c.Driver {
	case "postgres":
		if c.Host == "" || c.User == "" || c.Name == "" {
			return fmt.Errorf("invalid db config: host/user/name must not be empty")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("invalid db config: sqlite_path must not be empty")
		}
	default:
		return fmt.Errorf("invalid db config: unknown driver %q", c.Driver)
	}
	return nil
}

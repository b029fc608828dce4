package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from a YAML file
// per APP_ENV with environment-variable overrides.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	CORS     CORSConfig     `yaml:"cors"`
}

type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	// Expiry values in minutes
	ExpiresIn int `yaml:"expires_in"`
	RefreshIn int `yaml:"refresh_in"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// Load reads the YAML config file and applies env overrides
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App:      AppConfig{Env: "local", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 3306, User: "root", Name: "social"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:      JWTConfig{ExpiresIn: 15, RefreshIn: 10080},
		CORS:     CORSConfig{AllowOrigins: "http://localhost:3000"},
	}
}

// applyEnvOverrides lets environment variables win over file values
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.App.Env, "APP_ENV")
	setInt(&cfg.App.Port, "APP_PORT")

	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")
	setInt(&cfg.JWT.RefreshIn, "JWT_REFRESH_IN")

	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// DSN builds the MySQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// IsDevelopment reports whether the app runs in a dev-like env
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev" || c.App.Env == "local"
}

// Package config содержит логику чтения конфигурации сервиса заказов.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса заказов.
type Config struct {
	RunAddress   string        `env:"RUN_ADDRESS"`
	DatabaseURI  string        `env:"DATABASE_URI"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	KafkaBrokers string        `env:"KAFKA_BROKERS"`
	KafkaTopic   string        `env:"KAFKA_TOPIC"`
	SecretKey    string        `env:"SECRET_KEY"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddr := cfg.RedisAddr
	envKafkaBrokers := cfg.KafkaBrokers
	envKafkaTopic := cfg.KafkaTopic
	envSecretKey := cfg.SecretKey
	envTokenTTL := cfg.TokenTTL

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "localhost:6379", "redis address")
	flag.StringVar(&cfg.KafkaBrokers, "k", "localhost:9092", "kafka brokers, comma-separated")
	flag.StringVar(&cfg.KafkaTopic, "t", "new_order", "kafka topic for order notifications")
	flag.StringVar(&cfg.SecretKey, "s", "change-me", "secret key for signing tokens")
	flag.DurationVar(&cfg.TokenTTL, "l", 30*time.Minute, "access token lifetime")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if envKafkaBrokers != "" {
		cfg.KafkaBrokers = envKafkaBrokers
	}
	if envKafkaTopic != "" {
		cfg.KafkaTopic = envKafkaTopic
	}
	if envSecretKey != "" {
		cfg.SecretKey = envSecretKey
	}
	if envTokenTTL != 0 {
		cfg.TokenTTL = envTokenTTL
	}

	return cfg, nil
}

// Brokers возвращает список адресов брокеров Kafka.
func (c *Config) Brokers() []string {
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

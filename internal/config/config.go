package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	HTTPPort       string
	ConsumerPort   string
	PostgresDSN    string
	MigrationsPath string
	RedisAddr      string
	CacheTTL       time.Duration
	NatsURL        string
	NatsSubject    string
	ClickhouseDSN  string
	BatchSize      int
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
// Значения по умолчанию рассчитаны на локальный запуск через docker-compose
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		ConsumerPort:   getEnv("CONSUMER_PORT", "8081"),
		PostgresDSN:    getPostgresDSN(),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations/postgres"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		NatsURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		NatsSubject:    getEnv("NATS_SUBJECT", "content.changes"),
		ClickhouseDSN:  getEnv("CLICKHOUSE_DSN", "tcp://localhost:9000?database=default"),
	}

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("config: не удалось распарсить CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	batchSize, err := strconv.Atoi(getEnv("BATCH_SIZE", "10"))
	if err != nil || batchSize <= 0 {
		return nil, fmt.Errorf("config: некорректный BATCH_SIZE: %q", getEnv("BATCH_SIZE", "10"))
	}
	cfg.BatchSize = batchSize

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getPostgresDSN возвращает DATABASE_URL либо собирает DSN из отдельных переменных.
func getPostgresDSN() string {
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		return dbURL
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "portfolio")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbName)
}

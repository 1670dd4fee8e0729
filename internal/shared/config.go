package shared

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string

	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionTTLSec int

	OpenAIKey   string
	OpenAIModel string
	AIOverride  string
	AIRateRPS   int

	MinioEndpoint  string
	MinioBucket    string
	MinioAccessKey string
	MinioSecretKey string
	MinioSSL       bool
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/inspection?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),

		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		SessionTTLSec: atoi("SESSION_TTL_SECONDS", 24*3600),

		OpenAIKey:   env("OPENAI_API_KEY", ""),
		OpenAIModel: env("OPENAI_MODEL", "gpt-4o-mini"),
		AIOverride:  env("AI_OVERRIDE", "auto"),
		AIRateRPS:   atoi("AI_RATE_RPS", 5),

		MinioEndpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
		MinioBucket:    env("MINIO_BUCKET", "inspection-uploads"),
		MinioAccessKey: env("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: env("MINIO_SECRET_KEY", "minioadmin"),
		MinioSSL:       env("MINIO_USE_SSL", "") == "true",
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty; AI runs in mock mode")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	ListingBase string
	ListingKey  string
	ListingRPS  int
	CacheTTL    time.Duration
	CORSOrigins []string
	SiteURL     string
	WarmWorkers int
	WarmCities  []string
	WarmFlush   bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win over it.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from any lookup function.
func FromEnv(getenv func(string) string) Config {
	env := func(k, def string) string {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
		return def
	}
	atoi := func(k string, def int) int {
		if v := getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/goldenkey?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		ListingBase: env("LISTING_BASE_URL", "https://api.panamagoldenkey.com/api/v1"),
		ListingKey:  env("LISTING_API_KEY", ""),
		ListingRPS:  atoi("LISTING_RPS", 10),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		CORSOrigins: splitList(env("CORS_ORIGINS", "http://localhost:3000")),
		SiteURL:     strings.TrimRight(env("SITE_URL", "https://panamagoldenkey.com"), "/"),
		WarmWorkers: atoi("WARM_WORKERS", 4),
		WarmCities:  splitList(env("WARM_CITIES", "Panama City,Boquete,Coronado,Pedasí,Bocas del Toro")),
		WarmFlush:   env("WARM_FLUSH", "false") == "true",
	}
	if c.ListingKey == "" {
		log.Warn().Msg("LISTING_API_KEY is empty; using anonymous listing reads")
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

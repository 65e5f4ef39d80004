package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN       string
	AutoMigrate bool

	JWTSecret string
	TokenTTL  time.Duration

	CORSAllowedOrigins []string

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	CreditNoteCacheTTL time.Duration
}

func LoadEnv() Env {
	appAddr := getEnv("APP_ADDR", ":8080")
	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
			getEnv("DB_USER", "root"),
			strings.TrimSpace(os.Getenv("DB_PASSWORD")),
			getEnv("DB_HOST", "127.0.0.1:3306"),
			getEnv("DB_NAME", "travel_backoffice"),
		)
	}

	tokenTTL := getInt("TOKEN_TTL_MINUTES", 480)
	if tokenTTL < 1 {
		tokenTTL = 480
	}
	cacheTTL := getInt("CREDIT_NOTE_CACHE_TTL_SECONDS", 30)
	if cacheTTL < 1 {
		cacheTTL = 30
	}

	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            ginMode,
		DBDSN:              dsn,
		AutoMigrate:        getBool("AUTO_MIGRATE", true),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:           time.Duration(tokenTTL) * time.Minute,
		CORSAllowedOrigins: origins,
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		CreditNoteCacheTTL: time.Duration(cacheTTL) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

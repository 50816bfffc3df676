package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string

	LogLevel string

	IdentityProjectID   string
	IdentityClientEmail string
	IdentityPrivateKey  string
	IdentityKeyID       string
	IdentityKeysURL     string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CORSOrigins []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "topup-shop"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel: os.Getenv("LOG_LEVEL"),

		IdentityProjectID:   os.Getenv("IDENTITY_PROJECT_ID"),
		IdentityClientEmail: os.Getenv("IDENTITY_CLIENT_EMAIL"),
		// keys pasted into .env files usually carry literal \n sequences
		IdentityPrivateKey: strings.ReplaceAll(os.Getenv("IDENTITY_PRIVATE_KEY"), `\n`, "\n"),
		IdentityKeyID:      os.Getenv("IDENTITY_KEY_ID"),
		IdentityKeysURL:    os.Getenv("IDENTITY_KEYS_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		CORSOrigins: CSV(os.Getenv("CORS_ORIGINS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

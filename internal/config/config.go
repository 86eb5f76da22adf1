package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	SQLitePath  string // fallback when no DATABASE_URL is set (dev/test, pure-Go sqlite)
	RedisURL    string

	BaseCurrency  string
	ExchangeRates map[string]decimal.Decimal // foreign -> base; EXCHANGE_RATES env is a JSON object

	NotificationsEnabled bool
	QuoteCacheTTLSeconds int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	sqlitePath := viper.GetString("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "data/nestegg.db"
	}

	base := strings.ToUpper(viper.GetString("BASE_CURRENCY"))
	if base == "" {
		base = "EUR"
	}

	rates, err := parseRates(viper.GetString("EXCHANGE_RATES"))
	if err != nil {
		return nil, err
	}

	ttl := viper.GetInt("QUOTE_CACHE_TTL_SECONDS")
	if ttl <= 0 {
		ttl = 300
	}

	return &Config{
		Env:                  env,
		Port:                 port,
		DatabaseURL:          dbURL,
		SQLitePath:           sqlitePath,
		RedisURL:             viper.GetString("REDIS_URL"),
		BaseCurrency:         base,
		ExchangeRates:        rates,
		NotificationsEnabled: !strings.EqualFold(viper.GetString("NOTIFICATIONS_ENABLED"), "false"),
		QuoteCacheTTLSeconds: ttl,
	}, nil
}

// parseRates decodes EXCHANGE_RATES, e.g. {"USD":"0.92","GBP":"1.17"}.
// Rates are decoded from strings so decimal precision survives the env round trip.
func parseRates(raw string) (map[string]decimal.Decimal, error) {
	rates := map[string]decimal.Decimal{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return rates, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	for code, val := range m {
		d, err := decimal.NewFromString(val)
		if err != nil {
			return nil, err
		}
		rates[strings.ToUpper(code)] = d
	}
	return rates, nil
}

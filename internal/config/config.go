package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	ProxyHeader   string `mapstructure:"PROXY_HEADER"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	StorageSecret string `mapstructure:"STORAGE_SECRET"`
	StorageDir    string `mapstructure:"STORAGE_DIR"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	AIAPIKey     string `mapstructure:"AI_API_KEY"`
	AIBaseURL    string `mapstructure:"AI_BASE_URL"`
	ChatModel    string `mapstructure:"CHAT_MODEL"`
	ExtractModel string `mapstructure:"EXTRACT_MODEL"`

	// ChatURL and ReceiptURL point the session side at a gateway; empty
	// means this process's own gateway routes.
	ChatURL    string `mapstructure:"CHAT_URL"`
	ReceiptURL string `mapstructure:"RECEIPT_URL"`

	ConfirmOnUpload    bool `mapstructure:"CONFIRM_ON_UPLOAD"`
	RateLimitPerMinute int  `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int  `mapstructure:"RATE_LIMIT_BURST"`
	StreamMaxPending   int  `mapstructure:"STREAM_MAX_PENDING"`
	SeedItinerary      bool `mapstructure:"SEED_ITINERARY"`
}

var keys = []string{
	"SERVER_PORT", "PROXY_HEADER", "POSTGRES_URL", "REDIS_ADDR", "REDIS_PASSWORD",
	"STORAGE_SECRET", "STORAGE_DIR", "PUBLIC_BASE_URL",
	"AI_API_KEY", "AI_BASE_URL", "CHAT_MODEL", "EXTRACT_MODEL",
	"CHAT_URL", "RECEIPT_URL",
	"CONFIRM_ON_UPLOAD", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST",
	"STREAM_MAX_PENDING", "SEED_ITINERARY",
}

func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("config: loaded .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("STORAGE_SECRET", "dev-secret-change-me")
	v.SetDefault("STORAGE_DIR", "./data")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("EXTRACT_MODEL", "gpt-4o")
	v.SetDefault("CONFIRM_ON_UPLOAD", true)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("STREAM_MAX_PENDING", 1<<20)
	v.SetDefault("SEED_ITINERARY", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("config: unmarshal: %v", err)
	}
	return cfg
}

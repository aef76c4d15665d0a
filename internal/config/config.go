package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once at startup and handed to each collaborator's constructor.
type Config struct {
	AppPort string
	AppEnv  string
	Debug   bool
	LogPath string // empty disables the rotating file sink

	StoreDriver string // "dynamodb" | "postgres"

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	DatabaseURL string
	DBMaxConns  int32

	SessionSecret       string
	SessionExpiry       time.Duration
	SessionCookieName   string
	SessionCookieSecure bool

	OTPExpiry   time.Duration
	OTPHashCost int

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string // mail API credential (Brevo SMTP key)

	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   float64  // 0 disables the limiter
	RateLimitBurst int
	TrustProxy     bool // key the limiter by X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Otps  string
}

const (
	StoreDynamo   = "dynamodb"
	StorePostgres = "postgres"
)

// Load reads all configuration from environment variables.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		AppPort: v.GetString("APP_PORT"),
		AppEnv:  v.GetString("APP_ENV"),
		Debug:   v.GetBool("DEBUG"),
		LogPath: v.GetString("LOG_PATH"),

		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),

		AWSRegion:      v.GetString("AWS_REGION"),
		AWSEndpointURL: v.GetString("AWS_ENDPOINT_URL"),
		AWSAccessKeyID: v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		DynamoTables: DynamoTables{
			Users: v.GetString("DYNAMO_TABLE_USERS"),
			Otps:  v.GetString("DYNAMO_TABLE_OTPS"),
		},

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBMaxConns:  v.GetInt32("DB_MAX_CONNS"),

		SessionSecret:       v.GetString("SESSION_SECRET"),
		SessionExpiry:       time.Duration(v.GetInt("SESSION_EXPIRY_HOURS")) * time.Hour,
		SessionCookieName:   v.GetString("SESSION_COOKIE_NAME"),
		SessionCookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),

		OTPExpiry:   time.Duration(v.GetInt("OTP_EXPIRY_MINUTES")) * time.Minute,
		OTPHashCost: v.GetInt("OTP_HASH_COST"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetString("SMTP_PORT"),
		SMTPFrom:     v.GetString("SMTP_FROM"),
		SMTPFromName: v.GetString("SMTP_FROM_NAME"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),

		LLMAPIKey:      v.GetString("LLM_API_KEY"),
		LLMBaseURL:     v.GetString("LLM_BASE_URL"),
		LLMModel:       v.GetString("LLM_MODEL"),
		LLMTemperature: float32(v.GetFloat64("LLM_TEMPERATURE")),
		LLMMaxTokens:   v.GetInt("LLM_MAX_TOKENS"),
		LLMTimeout:     time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,

		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		TrustProxy:     v.GetBool("TRUST_PROXY_HEADERS"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("STORE_DRIVER", StoreDynamo)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMO_TABLE_USERS", "users")
	v.SetDefault("DYNAMO_TABLE_OTPS", "otps")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 30*24)
	v.SetDefault("SESSION_COOKIE_NAME", "hrcompass.session-token")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_HASH_COST", 10)
	v.SetDefault("SMTP_HOST", "smtp-relay.brevo.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_FROM_NAME", "HR Bot")
	v.SetDefault("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("LLM_MODEL", "gemini-2.0-flash")
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_MAX_TOKENS", 4096)
	v.SetDefault("LLM_TIMEOUT_SECONDS", 60)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("TRUST_PROXY_HEADERS", false)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

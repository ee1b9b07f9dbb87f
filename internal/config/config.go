package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// APP_ENV=development forces mock replies, like a local dev server would.
	AppEnv   string
	MockMode bool
	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	Temperature   float32
	Timeout       time.Duration // zero means no deadline on live calls
	// Optional YAML override for the wizard steps
	StepsFile string
	// Report provider failures as 200 with an error body instead of 502
	ErrorsAsOK bool
	// Logging
	LogMode string
	LogFile string
	// Wizard sessions idle out after this long
	SessionTTL time.Duration
	// Tracing
	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:            getEnvDefault("PORT", "8080"),
		AllowedOrigin:   getEnvDefault("ALLOWED_ORIGIN", "*"),
		AppEnv:          strings.ToLower(getEnvDefault("APP_ENV", "production")),
		MockMode:        getEnvBoolDefault("MOCK_MODE", false),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		Model:           getEnvDefault("OPENAI_MODEL", "gpt-3.5-turbo-0125"),
		Temperature:     float32(getEnvFloatDefault("OPENAI_TEMPERATURE", 0.7)),
		Timeout:         time.Duration(getEnvIntDefault("OPENAI_TIMEOUT_SECONDS", 0)) * time.Second,
		StepsFile:       os.Getenv("STEPS_FILE"),
		ErrorsAsOK:      getEnvBoolDefault("CHAT_ERRORS_AS_200", false),
		LogMode:         getEnvDefault("LOG_MODE", "development"),
		LogFile:         os.Getenv("LOG_FILE"),
		SessionTTL:      time.Duration(getEnvIntDefault("SESSION_TTL_MINUTES", 30)) * time.Minute,
		OTelEnabled:     getEnvBoolDefault("OTEL_ENABLED", false),
		OTelEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTelSampleRatio: getEnvFloatDefault("OTEL_SAMPLER_RATIO", 1),
	}
	if !cfg.MockEnabled() && cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; live replies will fail until provided")
	}
	return cfg
}

// MockEnabled reports whether the gateway should answer with canned replies.
func (c Config) MockEnabled() bool {
	return c.MockMode || c.AppEnv == "development"
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvFloatDefault(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return def
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	LLM      LLMConfig
	Speech   SpeechConfig
	Visits   VisitsConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LLMConfig selects and tunes the completion backend used for the fuzzy
// judgment calls (compliance, summary, sentiment).
type LLMConfig struct {
	Backend     string
	Model       string
	OllamaHost  string
	Timeout     time.Duration
	Temperature float64
}

// SpeechConfig configures the voice transcription client.
type SpeechConfig struct {
	Endpoint string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// VisitsConfig tunes mission classification and visit closure behaviour.
type VisitsConfig struct {
	RoutineKeywords  []string
	RoutineTopic     string
	MissionCacheTTL  time.Duration
	CloseMaxRetries  int
	AuditWithLLM     bool
	SummarizeWithLLM bool
}

// ExportsConfig governs asynchronous report export generation.
type ExportsConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.LLM = LLMConfig{
		Backend:     v.GetString("LLM_BACKEND"),
		Model:       v.GetString("LLM_MODEL"),
		OllamaHost:  v.GetString("OLLAMA_HOST"),
		Timeout:     parseDuration(v.GetString("LLM_TIMEOUT"), 20*time.Second),
		Temperature: v.GetFloat64("LLM_TEMPERATURE"),
	}

	cfg.Speech = SpeechConfig{
		Endpoint: v.GetString("SPEECH_ENDPOINT"),
		APIKey:   v.GetString("SPEECH_API_KEY"),
		Language: v.GetString("SPEECH_LANGUAGE"),
		Timeout:  parseDuration(v.GetString("SPEECH_TIMEOUT"), 15*time.Second),
	}

	cfg.Visits = VisitsConfig{
		RoutineKeywords:  splitAndTrim(v.GetString("ROUTINE_KEYWORDS")),
		RoutineTopic:     v.GetString("ROUTINE_TOPIC"),
		MissionCacheTTL:  parseDuration(v.GetString("MISSION_CACHE_TTL"), time.Minute),
		CloseMaxRetries:  v.GetInt("CLOSE_MAX_RETRIES"),
		AuditWithLLM:     v.GetBool("AUDIT_WITH_LLM"),
		SummarizeWithLLM: v.GetBool("SUMMARIZE_WITH_LLM"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:           v.GetBool("ENABLE_EXPORTS"),
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "salesflow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LLM_BACKEND", "gemini")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("LLM_TIMEOUT", "20s")
	v.SetDefault("LLM_TEMPERATURE", 0.0)

	v.SetDefault("SPEECH_ENDPOINT", "https://speech.googleapis.com/v1/speech:recognize")
	v.SetDefault("SPEECH_API_KEY", "")
	v.SetDefault("SPEECH_LANGUAGE", "th-TH")
	v.SetDefault("SPEECH_TIMEOUT", "15s")

	v.SetDefault("ROUTINE_KEYWORDS", "monthly visit,general visit,follow-up contact,เยี่ยมประจำเดือน,เยี่ยมทั่วไป")
	v.SetDefault("ROUTINE_TOPIC", "Monthly Visit")
	v.SetDefault("MISSION_CACHE_TTL", "60s")
	v.SetDefault("CLOSE_MAX_RETRIES", 3)
	v.SetDefault("AUDIT_WITH_LLM", true)
	v.SetDefault("SUMMARIZE_WITH_LLM", true)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

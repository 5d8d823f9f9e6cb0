package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	OpenAI  OpenAIConfig
	Storage StorageConfig
	Redis   RedisConfig
	App     AppConfig
}

type ServerConfig struct {
	Port           string
	PublicBaseURL  string
	AllowedOrigins []string
}

type OpenAIConfig struct {
	APIKey       string
	Organization string
	BaseURL      string
	TextModel    string
	ImageModel   string
	ImageSize    string
	TTSModel     string
	TTSVoice     string
	Timeout      time.Duration
}

type StorageConfig struct {
	ImagesDir string
	AudiosDir string
}

// RedisConfig is optional. An empty Addr keeps audio cache locking in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	timeout := time.Duration(getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120)) * time.Second

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5501"),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		OpenAI: OpenAIConfig{
			APIKey:       os.Getenv("OPENAI_API_KEY"),
			Organization: os.Getenv("OPENAI_ORGANIZATION"),
			BaseURL:      getEnv("OPENAI_BASE_URL", ""),
			TextModel:    getEnv("OPENAI_TEXT_MODEL", "gpt-4o-mini"),
			ImageModel:   getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
			ImageSize:    getEnv("OPENAI_IMAGE_SIZE", "1792x1024"),
			TTSModel:     getEnv("OPENAI_TTS_MODEL", "tts-1"),
			TTSVoice:     getEnv("OPENAI_TTS_VOICE", "alloy"),
			Timeout:      timeout,
		},
		Storage: StorageConfig{
			ImagesDir: getEnv("IMAGES_DIR", "images"),
			AudiosDir: getEnv("AUDIOS_DIR", "audios"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			LockTTL:  time.Duration(getEnvAsInt("AUDIO_LOCK_TTL_SECONDS", defaultLockTTLSeconds(timeout))) * time.Second,
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.OpenAI.Organization == "" {
		return fmt.Errorf("OPENAI_ORGANIZATION is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Storage.ImagesDir == "" || c.Storage.AudiosDir == "" {
		return fmt.Errorf("IMAGES_DIR and AUDIOS_DIR must not be empty")
	}
	if c.OpenAI.Timeout < 0 {
		return fmt.Errorf("OPENAI_TIMEOUT_SECONDS must not be negative")
	}
	if c.Redis.LockTTL <= 0 {
		return fmt.Errorf("AUDIO_LOCK_TTL_SECONDS must be positive")
	}
	if c.OpenAI.Timeout > 0 && c.Redis.LockTTL < c.OpenAI.Timeout {
		return fmt.Errorf("AUDIO_LOCK_TTL_SECONDS (%s) must not be shorter than OPENAI_TIMEOUT_SECONDS (%s)",
			c.Redis.LockTTL, c.OpenAI.Timeout)
	}

	return nil
}

// defaultLockTTLSeconds keeps the audio lock alive for a whole speech call plus
// the file write.
func defaultLockTTLSeconds(timeout time.Duration) int {
	if timeout <= 0 {
		return 60
	}
	return int(timeout/time.Second) + 30
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

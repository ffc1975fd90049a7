package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Qdrant   QdrantConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	AllowOrigins string
	AllowMethods string
	AllowHeaders string
}

type DatabaseConfig struct {
	URL            string
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	ConnectTimeout time.Duration
}

type LLMConfig struct {
	Provider        string
	GeminiAPIKey    string
	GroqAPIKey      string
	GroqBaseURL     string
	Model           string
	EmbeddingModel  string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int
}

type StorageConfig struct {
	Backend     string
	UploadPath  string
	MaxFileSize int64
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	provider := getEnv("LLM_PROVIDER", "gemini")

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			Env:          getEnv("ENV", "development"),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowMethods: getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "*"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "evaluno_db"),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", "30s"),
		},
		LLM: LLMConfig{
			Provider:        provider,
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:           getEnv("LLM_MODEL", defaultModel(provider)),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			Temperature:     float32(getEnvAsFloat("LLM_TEMPERATURE", 0.3)),
			MaxOutputTokens: int32(getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 8192)),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", "120s"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			JWTExpiry:  getEnvAsDuration("JWT_EXPIRY", "60m"),
			BcryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			Backend:     getEnv("ARCHIVE_BACKEND", "local"),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3Region:    getEnv("S3_REGION", "auto"),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_questions"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case "groq":
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when LLM_PROVIDER=groq")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2")
	}

	switch c.Storage.Backend {
	case "local", "none":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when ARCHIVE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_BACKEND %q", c.Storage.Backend)
	}

	return nil
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		int(c.Database.ConnectTimeout.Seconds()),
	)
}

func defaultModel(provider string) string {
	if provider == "groq" {
		return "llama-3.3-70b-versatile"
	}
	return "gemini-2.5-flash"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Interview InterviewConfig
	Redis     RedisConfig
	Logging   LoggingConfig
	Media     MediaConfig

	// EnvFiles lists the dotenv files that were actually loaded.
	EnvFiles []string
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type StorageConfig struct {
	UploadPath    string
	MaxFileSize   int64
	TranscriptDir string
}

type WorkerConfig struct {
	PollInterval time.Duration
}

type InterviewConfig struct {
	CatalogPath          string
	TimeLimit            time.Duration
	QuestionsPerCategory int
	FollowUpMinWords     int
	FollowUpMinCoverage  float64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether the live transcript feed should be published.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type LoggingConfig struct {
	JSON  bool
	Debug bool
}

// MediaConfig holds credentials of the hosted voice pipeline. They are handed
// to the external media session and only reported on, never used in-process.
type MediaConfig struct {
	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string
	DeepgramAPIKey   string
	CartesiaAPIKey   string
}

// Configured maps each media credential to whether it is set.
func (m MediaConfig) Configured() map[string]bool {
	return map[string]bool{
		"livekit":  m.LiveKitURL != "" && m.LiveKitAPIKey != "" && m.LiveKitAPISecret != "",
		"deepgram": m.DeepgramAPIKey != "",
		"cartesia": m.CartesiaAPIKey != "",
	}
}

// Load reads the given dotenv files (".env" when none are given) and then the
// process environment. Missing dotenv files are not an error.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	var loaded []string
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_copilot"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_copilot"),
			VectorSize: uint64(getEnvAsInt64("QDRANT_VECTOR_SIZE", 768)),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			TranscriptDir: getEnv("TRANSCRIPT_DIR", "./transcripts"),
		},
		Worker: WorkerConfig{
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "5s"),
		},
		Interview: InterviewConfig{
			CatalogPath:          getEnv("CATALOG_PATH", ""),
			TimeLimit:            getEnvAsDuration("INTERVIEW_TIME_LIMIT", "15m"),
			QuestionsPerCategory: getEnvAsInt("QUESTIONS_PER_CATEGORY", 2),
			FollowUpMinWords:     getEnvAsInt("FOLLOWUP_MIN_WORDS", 20),
			FollowUpMinCoverage:  getEnvAsFloat("FOLLOWUP_MIN_COVERAGE", 0.15),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
		Media: MediaConfig{
			LiveKitURL:       getEnv("LIVEKIT_URL", ""),
			LiveKitAPIKey:    getEnv("LIVEKIT_API_KEY", ""),
			LiveKitAPISecret: getEnv("LIVEKIT_API_SECRET", ""),
			DeepgramAPIKey:   getEnv("DEEPGRAM_API_KEY", ""),
			CartesiaAPIKey:   getEnv("CARTESIA_API_KEY", ""),
		},
		EnvFiles: loaded,
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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

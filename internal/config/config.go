package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Forecast ForecastConfig
	Storage  StorageConfig
	Drive    DriveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the key/value connection string understood by lib/pq.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// form used by the pgx driver in the CLI tools.
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type AppConfig struct {
	UploadDir string
	DataDir   string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type ForecastConfig struct {
	HorizonDays        int
	AnalysisWindowDays int
	Workers            int
	// Seed 0 means seed from the clock on every run.
	Seed uint64
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Prefix    string
}

type DriveConfig struct {
	CredentialsFile string
	FolderPath      string
	DownloadDir     string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = load(viper.New())

		ensureDir(instance.App.UploadDir)
		ensureDir(instance.App.DataDir)
	})

	return instance
}

func load(v *viper.Viper) *Config {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smart_inventory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
	v.SetDefault("APP_DATA_DIR", "./data/output")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("JWT_SECRET", "change-me-in-production-please")
	v.SetDefault("JWT_ISSUER", "smart-inventory")
	v.SetDefault("JWT_AUDIENCE", "smart-inventory-client")
	v.SetDefault("JWT_ACCESS_TTL_MINUTES", 60)
	v.SetDefault("JWT_REFRESH_TTL_HOURS", 24*7)
	v.SetDefault("FORECAST_HORIZON_DAYS", 30)
	v.SetDefault("FORECAST_ANALYSIS_WINDOW_DAYS", 90)
	v.SetDefault("FORECAST_WORKERS", 8)
	v.SetDefault("FORECAST_SEED", 0)
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_BUCKET", "smart-inventory")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_PREFIX", "exports")
	v.SetDefault("DRIVE_DOWNLOAD_DIR", "./data/drive")

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			UploadDir: v.GetString("APP_UPLOAD_DIR"),
			DataDir:   v.GetString("APP_DATA_DIR"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			TTLSeconds:    v.GetInt("CACHE_TTL_SECONDS"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			Issuer:          v.GetString("JWT_ISSUER"),
			Audience:        v.GetString("JWT_AUDIENCE"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TTL_MINUTES")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TTL_HOURS")) * time.Hour,
		},
		Forecast: ForecastConfig{
			HorizonDays:        v.GetInt("FORECAST_HORIZON_DAYS"),
			AnalysisWindowDays: v.GetInt("FORECAST_ANALYSIS_WINDOW_DAYS"),
			Workers:            v.GetInt("FORECAST_WORKERS"),
			Seed:               v.GetUint64("FORECAST_SEED"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsFile: v.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderPath:      v.GetString("DRIVE_FOLDER_PATH"),
			DownloadDir:     v.GetString("DRIVE_DOWNLOAD_DIR"),
		},
	}
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}

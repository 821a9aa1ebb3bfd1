// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Models   ModelsConfig
	Forecast ForecastConfig
	Alerts   AlertsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
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

type CacheConfig struct {
	Enabled              bool
	RedisURL             string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	PredictionTTLSeconds int
}

// ModelsConfig controls where trained model artifacts are loaded from.
// Source is either "local" (ModelDir) or "s3" (MinIO-compatible bucket).
type ModelsConfig struct {
	Source    string
	ModelDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ForecastConfig holds the static medicine-to-model-family routing and
// batch execution settings.
type ForecastConfig struct {
	TabularMedicines    []string
	SequentialMedicines []string
	WorkerCount         int
	HorizonWeeks        int
}

type AlertsConfig struct {
	ExpiryAlertDays int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "medforecast")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PREDICTION_TTL_SECONDS", 60)
		viper.SetDefault("MODELS_SOURCE", "local")
		viper.SetDefault("MODELS_DIR", "./data/models")
		viper.SetDefault("MODELS_S3_ENDPOINT", "")
		viper.SetDefault("MODELS_S3_ACCESS_KEY", "")
		viper.SetDefault("MODELS_S3_SECRET_KEY", "")
		viper.SetDefault("MODELS_S3_BUCKET", "")
		viper.SetDefault("MODELS_S3_USE_SSL", true)
		viper.SetDefault("FORECAST_TABULAR_MEDICINES", []string{})
		viper.SetDefault("FORECAST_SEQUENTIAL_MEDICINES", []string{})
		viper.SetDefault("FORECAST_WORKER_COUNT", 4)
		viper.SetDefault("FORECAST_HORIZON_WEEKS", 1)
		viper.SetDefault("ALERTS_EXPIRY_DAYS", 30)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:              viper.GetBool("CACHE_ENABLED"),
				RedisURL:             viper.GetString("REDIS_URL"),
				RedisHost:            viper.GetString("REDIS_HOST"),
				RedisPort:            viper.GetString("REDIS_PORT"),
				RedisPassword:        viper.GetString("REDIS_PASSWORD"),
				RedisDB:              viper.GetInt("REDIS_DB"),
				PredictionTTLSeconds: viper.GetInt("CACHE_PREDICTION_TTL_SECONDS"),
			},
			Models: ModelsConfig{
				Source:    viper.GetString("MODELS_SOURCE"),
				ModelDir:  viper.GetString("MODELS_DIR"),
				Endpoint:  viper.GetString("MODELS_S3_ENDPOINT"),
				AccessKey: viper.GetString("MODELS_S3_ACCESS_KEY"),
				SecretKey: viper.GetString("MODELS_S3_SECRET_KEY"),
				Bucket:    viper.GetString("MODELS_S3_BUCKET"),
				UseSSL:    viper.GetBool("MODELS_S3_USE_SSL"),
			},
			Forecast: ForecastConfig{
				TabularMedicines:    viper.GetStringSlice("FORECAST_TABULAR_MEDICINES"),
				SequentialMedicines: viper.GetStringSlice("FORECAST_SEQUENTIAL_MEDICINES"),
				WorkerCount:         viper.GetInt("FORECAST_WORKER_COUNT"),
				HorizonWeeks:        viper.GetInt("FORECAST_HORIZON_WEEKS"),
			},
			Alerts: AlertsConfig{
				ExpiryAlertDays: viper.GetInt("ALERTS_EXPIRY_DAYS"),
			},
		}
	})

	return instance
}

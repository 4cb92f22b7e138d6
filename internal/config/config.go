package config

import (
	"fmt"  // Error wrapping
	"time" // Durations

	"github.com/ilyakaznacheev/cleanenv" // Env struct reader
	"github.com/joho/godotenv"           // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string        `env:"APP_PORT" env-default:"3000"`              // Application port
	DBUser         string        `env:"DB_USER" env-default:"root"`               // Database user
	DBPassword     string        `env:"DB_PASSWORD"`                              // Database password
	DBHost         string        `env:"DB_HOST" env-default:"127.0.0.1"`          // Database host
	DBPort         string        `env:"DB_PORT" env-default:"3306"`               // Database port
	DBName         string        `env:"DB_NAME" env-default:"bookstore"`          // Database name
	JWTSecret      string        `env:"JWT_SECRET" env-required:"true"`           // JWT secret key
	JWTTTL         time.Duration `env:"JWT_TTL" env-default:"15m"`                // Access token lifetime
	RedisAddr      string        `env:"REDIS_ADDR"`                               // Redis server address, empty disables caching
	RedisPass      string        `env:"REDIS_PASS"`                               // Redis password
	RedisDB        int           `env:"REDIS_DB" env-default:"0"`                 // Redis database number
	IsProd         bool          `env:"IS_PROD" env-default:"false"`              // Is production environment
	LogLevel       string        `env:"LOG_LEVEL" env-default:"info"`             // Logrus level name
	UploadDir      string        `env:"UPLOAD_DIR" env-default:"uploads"`         // Root of stored uploads
	BcryptCost     int           `env:"BCRYPT_COST" env-default:"10"`             // Password hashing cost
	WalletBalance  string        `env:"WALLET_DEFAULT_BALANCE" env-default:"20"`  // Balance credited at registration
	AuthRateLimit  float64       `env:"AUTH_RATE_LIMIT" env-default:"5"`          // Auth requests per second per client
	AuthRateBurst  int           `env:"AUTH_RATE_BURST" env-default:"10"`         // Auth burst size per client
	ShutdownPeriod time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`       // Graceful shutdown deadline
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

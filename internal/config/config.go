package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Config is filled by kong from flags, then environment variables, then the
// default tags. cmd/api embeds it in the CLI so every value is also a flag.
type Config struct {
	Port string `env:"PORT" default:"8080" help:"HTTP listen port."`

	DBHost     string `env:"DB_HOST" default:"localhost" help:"Postgres host."`
	DBPort     string `env:"DB_PORT" default:"5432" help:"Postgres port."`
	DBUser     string `env:"DB_USER" default:"postgres" help:"Postgres user."`
	DBPassword string `env:"DB_PASSWORD" help:"Postgres password."`
	DBName     string `env:"DB_NAME" default:"trackloom" help:"Postgres database."`

	RedisHost     string `env:"REDIS_HOST" default:"localhost" help:"Redis host."`
	RedisPort     string `env:"REDIS_PORT" default:"6379" help:"Redis port."`
	RedisPassword string `env:"REDIS_PASSWORD" help:"Redis password."`
	RedisDB       int    `env:"REDIS_DB" default:"0" help:"Redis logical database."`

	JWTSecret string        `env:"JWT_SECRET" help:"HMAC secret for access tokens (required)."`
	JWTIssuer string        `env:"JWT_ISSUER" default:"trackloom" help:"Issuer claim of access tokens."`
	JWTTTL    time.Duration `env:"JWT_TTL" default:"24h" help:"Access token lifetime."`

	LogLevel string `env:"LOG_LEVEL" default:"info" help:"Log level: debug, info, warn or error."`
	LogFile  string `env:"LOG_FILE" help:"Also write logs to this file, rotated."`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" default:"http://localhost:5173" sep:"," help:"CORS origins, comma separated, or *."`
	RateLimit      int      `env:"RATE_LIMIT" default:"100" help:"Requests per minute per user or IP. 0 disables."`

	ReminderPollInterval time.Duration `env:"REMINDER_POLL_INTERVAL" default:"30s" help:"How often due reminders are polled."`

	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY" help:"Web push public key."`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY" help:"Web push private key."`
	VAPIDSubject    string `env:"VAPID_SUBJECT" default:"mailto:admin@trackloom.app" help:"Web push contact."`

	AIModelID    string `env:"AI_MODEL_ID" help:"Bedrock model for suggestions. Empty disables AI."`
	AIDailyLimit int    `env:"AI_DAILY_LIMIT" default:"10" help:"AI suggestion calls per user per day."`
	AWSRegion    string `env:"AWS_REGION" default:"us-east-1" help:"AWS region for Bedrock."`
}

// LoadDotEnv reads an optional .env file from the working directory. Variables
// already set in the environment win over the file.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load resolves a Config from the environment alone, without command line flags.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{}
	parser, err := kong.New(cfg, kong.Name("trackloom"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if _, err := parser.Parse(nil); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize cleans up list values and checks the settings kong cannot express.
func (c *Config) Finalize() error {
	c.AllowedOrigins = compact(c.AllowedOrigins)

	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.RateLimit < 0 {
		return errors.New("config: RATE_LIMIT must not be negative")
	}
	if c.ReminderPollInterval <= 0 {
		return errors.New("config: REMINDER_POLL_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// PushEnabled reports whether both VAPID keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func (c *Config) AIEnabled() bool {
	return c.AIModelID != ""
}

func compact(list []string) []string {
	var out []string
	for _, item := range list {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// maxQuestions is the size of the prefecture table.
const maxQuestions = 47

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`         // current application environment (local, dev, production)
	TelegramAPIToken string `mapstructure:"-"`           // Telegram API token loaded from environment
	GeoJSONDir       string `mapstructure:"geojson_dir"` // directory with prefecture.json and NN.json boundary files
	Timezone         string `mapstructure:"timezone"`    // zone used to display history timestamps
	Quiz             Quiz   `mapstructure:"quiz"`        // quiz session parameters
	HTTP             HTTP   `mapstructure:"http"`        // map view API
	DB               DB     `mapstructure:"database"`    // database configuration section

	Location *time.Location `mapstructure:"-"` // parsed Timezone
}

// Quiz contains session parameters.
type Quiz struct {
	QuestionCount int               `mapstructure:"question_count"` // questions per session
	DefaultMode   entities.QuizMode `mapstructure:"default_mode"`   // mode used by /quiz without argument
	SessionTTL    time.Duration     `mapstructure:"session_ttl"`    // idle time after which a session is dropped
	SweepSchedule string            `mapstructure:"sweep_schedule"` // cron spec of the idle session sweeper
}

// HTTP contains the API server settings.
type HTTP struct {
	Addr      string        `mapstructure:"addr"`
	JWTSecret string        `mapstructure:"-"`         // key signing map client tokens, loaded from environment
	TokenTTL  time.Duration `mapstructure:"token_ttl"` // lifetime of a map client token
	MapURL    string        `mapstructure:"map_url"`   // map client page, /map sends a bare token when empty
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A local .env is optional; real environment variables win over it.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("geojson_dir", "assets/geojson")
	v.SetDefault("timezone", "Asia/Tokyo")
	v.SetDefault("quiz.question_count", 10)
	v.SetDefault("quiz.default_mode", string(entities.ModeMapChoice))
	v.SetDefault("quiz.session_ttl", "2h")
	v.SetDefault("quiz.sweep_schedule", "*/10 * * * *")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.token_ttl", "2h")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// QUIZ_QUESTION_COUNT overrides quiz.question_count and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("http_jwt_secret", "HTTP_JWT_SECRET")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	cfg.HTTP.JWTSecret = v.GetString("http_jwt_secret")
	if cfg.HTTP.JWTSecret == "" {
		return nil, fmt.Errorf("%w: HTTP_JWT_SECRET", ErrMissingEnvironmentVariables)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	loc, err := ParseLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg.Location = loc

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Quiz.QuestionCount < 1 || c.Quiz.QuestionCount > maxQuestions {
		return fmt.Errorf("%w: quiz.question_count must be between 1 and %d, got %d",
			ErrInvalidConfig, maxQuestions, c.Quiz.QuestionCount)
	}
	if !c.Quiz.DefaultMode.Valid() {
		return fmt.Errorf("%w: unknown quiz.default_mode %q", ErrInvalidConfig, c.Quiz.DefaultMode)
	}
	if c.Quiz.SessionTTL <= 0 {
		return fmt.Errorf("%w: quiz.session_ttl must be positive", ErrInvalidConfig)
	}
	if c.HTTP.TokenTTL <= 0 {
		return fmt.Errorf("%w: http.token_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

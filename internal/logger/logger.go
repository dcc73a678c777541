package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/config"
)

// New builds the process logger: JSON at info level in production,
// console output at debug level elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return log.With(zap.String("env", cfg.Env)), nil
}

package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. "prod"/"production" selects the JSON
// production encoder, anything else the human readable development one.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

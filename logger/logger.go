package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Debug mode uses zap's development console
// encoder; otherwise logs are JSON at info level.
func New(debug bool) *zap.SugaredLogger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "time"
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.Encoding = "json"
	}
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		// config above is static; fall back rather than crash on a bad sink
		l = zap.NewExample()
	}
	return l.Sugar()
}

package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	LogLevel zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL" default:"info"`
	Sink     string        `yaml:"sink" envconfig:"LOG_SINK"`
}

// NewLogger builds a json logger named after the service.
// An empty Sink writes to stdout; a sink that fails to open falls back to stderr.
func NewLogger(cfg Log, name string) *zap.Logger {
	ws, err := openSink(cfg.Sink)
	if err != nil {
		ws = zapcore.Lock(os.Stderr)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "ts"

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, zap.NewAtomicLevelAt(cfg.LogLevel))
	log := zap.New(core, zap.AddCaller()).Named(name)
	if err != nil {
		log.Error("open log sink", zap.String("sink", cfg.Sink), zap.Error(err))
	}
	return log
}

func openSink(sink string) (zapcore.WriteSyncer, error) {
	if sink == "" {
		return zapcore.Lock(os.Stdout), nil
	}
	ws, _, err := zap.Open(sink)
	return ws, err
}

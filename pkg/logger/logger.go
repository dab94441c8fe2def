package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is a zap sink: stderr, stdout or a file path.
	Output string `mapstructure:"output"`
}

var log = zap.NewNop()

func Initialize(cfg Config) error {
	l, err := build(cfg)
	if err != nil {
		return err
	}
	log = l

	return nil
}

func build(cfg Config) (*zap.Logger, error) {
	zLevel, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoding := cfg.Format
	switch encoding {
	case "":
		encoding = FormatJSON
	case FormatJSON, FormatConsole:
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	if encoding == FormatConsole {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
		InitialFields:    map[string]any{"app": "skyhunt"},
	}

	return zc.Build()
}

// Logger returns the process logger. Before Initialize it is a no-op logger,
// so packages can log from tests without setup.
func Logger() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}

package kit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions tunes NewLogger. The zero value logs JSON at info level to stdout.
type LogOptions struct {
	Level string
	// File, when set, receives a copy of every entry and is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func NewLogger(service string, opts LogOptions) *zap.Logger {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if l, err := zapcore.ParseLevel(opts.Level); err == nil {
			level = l
		}
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 64),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			Compress:   true,
		}
		core = zapcore.NewTee(core, zapcore.NewCore(enc, zapcore.AddSync(rotator), level))
	}

	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ppiankov/takedownreport/internal/config"
)

// ANSI color codes for the console level.
const (
	colorRed     = "\x1b[31m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorReset   = "\x1b[0m"
)

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  colorMagenta,
	zapcore.InfoLevel:   colorBlue,
	zapcore.WarnLevel:   colorYellow,
	zapcore.ErrorLevel:  colorRed,
	zapcore.DPanicLevel: colorRed,
	zapcore.PanicLevel:  colorRed,
	zapcore.FatalLevel:  colorCyan,
}

// ParseLevel maps a config level name to a zap level, defaulting to warn.
func ParseLevel(name string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// New builds a logger writing to console (stderr when nil) and, when
// cfg.File is set, to a rotated JSON file.
func New(cfg config.LogConfig, console zapcore.WriteSyncer) *zap.Logger {
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format, true), console, level),
	}

	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json", false), fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("takedownreport")
}

func encoder(format string, color bool) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "json" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(encCfg)
	}

	if color {
		encCfg.EncodeLevel = colorizedLevel
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	encCfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func colorizedLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	color, ok := levelColors[level]
	if !ok {
		enc.AppendString(level.CapitalString())
		return
	}
	enc.AppendString(color + level.CapitalString() + colorReset)
}

// Sync flushes the logger, ignoring the errors stdout/stderr return on some platforms.
func Sync(logger *zap.Logger) {
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil {
		msg := err.Error()
		if !strings.Contains(msg, "sync /dev/std") &&
			!strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") &&
			!strings.Contains(msg, "operation not supported") {
			_, _ = os.Stderr.WriteString("Error: failed to sync logger: " + msg + "\n")
		}
	}
}

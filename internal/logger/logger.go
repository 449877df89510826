package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until InitLogger is called, so packages may log unconditionally.
var Log = zap.NewNop().Sugar()

var zapLogger *zap.Logger

// Options selects the level and destination of the process logger.
type Options struct {
	Level  string    // debug, info, warn or error; LOG_LEVEL when empty
	Output io.Writer // stderr when nil, so stdout stays free for report rows
}

// InitLogger replaces Log with a JSON logger built from opts. A previously
// initialized logger is flushed first.
func InitLogger(opts Options) (*zap.SugaredLogger, error) {
	level := GetZapLevelFromEnv()
	if opts.Level != "" {
		level = ParseLevel(opts.Level)
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.LevelKey = "level"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(out)),
		level,
	)

	SyncLogger()
	zapLogger = zap.New(core)
	Log = zapLogger.Sugar()
	return Log, nil
}

func GetZapLevelFromEnv() zapcore.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLevel maps a level name to a zap level, falling back to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}

package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Sagar1205/QuickTask/internal/config"
)

type ctxKey int

const traceKey ctxKey = iota

const TraceIDField = "trace_id"

var (
	mu     sync.RWMutex
	logger *zap.Logger = zap.NewNop()
)

// Setup builds the global logger from config. Safe to call once at boot.
func Setup(cfg config.LoggingConfig) error {
	ws, err := buildWriteSyncer(cfg)
	if err != nil {
		return err
	}
	core := zapcore.NewCore(buildEncoder(cfg), ws, parseLevel(cfg.Level))
	l := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	logger = l
	mu.Unlock()

	l.Info("logger started",
		zap.String("level", cfg.Level),
		zap.String("format", cfg.Format),
		zap.String("output", cfg.Output),
	)
	return nil
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Sync() error { return L().Sync() }

// WithTraceID attaches a trace id to the context for correlated logging.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey, id)
}

// TraceID returns the trace id from ctx, generating one if absent.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	L().Debug(msg, withTrace(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	L().Info(msg, withTrace(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	L().Warn(msg, withTrace(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	L().Error(msg, withTrace(ctx, fields)...)
}

func Infof(ctx context.Context, format string, args ...any) {
	Info(ctx, fmt.Sprintf(format, args...))
}

func Errorf(ctx context.Context, format string, args ...any) {
	Error(ctx, fmt.Sprintf(format, args...))
}

func withTrace(ctx context.Context, fields []zap.Field) []zap.Field {
	return append([]zap.Field{zap.String(TraceIDField, TraceID(ctx))}, fields...)
}

func buildEncoder(cfg config.LoggingConfig) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func buildWriteSyncer(cfg config.LoggingConfig) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	case "file":
		return buildFileWriteSyncer(cfg)
	default:
		// not a standard keyword, treat as a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return zapcore.AddSync(file), nil
	}
}

func buildFileWriteSyncer(cfg config.LoggingConfig) (zapcore.WriteSyncer, error) {
	if cfg.Dir == "" || cfg.Filename == "" {
		return nil, fmt.Errorf("logging dir and filename are required when output is 'file'")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile := filepath.Join(cfg.Dir, cfg.Filename+".log")

	if cfg.Rotate {
		lumber := &lumberjack.Logger{
			Filename:  logFile,
			MaxSize:   100, // MB
			MaxAge:    cfg.MaxAgeDays,
			Compress:  true,
			LocalTime: true,
		}
		return zapcore.AddSync(lumber), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return zapcore.AddSync(file), nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "FATAL":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

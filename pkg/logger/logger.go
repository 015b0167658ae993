package logger

import (
    "context"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "gopkg.in/natefinch/lumberjack.v2"
)

// Field type
type Field = zapcore.Field

// Level type
type Level = zapcore.Level

const (
    DebugLevel Level = zapcore.DebugLevel
    InfoLevel  Level = zapcore.InfoLevel
    WarnLevel  Level = zapcore.WarnLevel
    ErrorLevel Level = zapcore.ErrorLevel
    FatalLevel Level = zapcore.FatalLevel
)

// Logger is the logging surface used across the client.
type Logger interface {
    Debug(msg string, fields ...Field)
    Info(msg string, fields ...Field)
    Warn(msg string, fields ...Field)
    Error(msg string, fields ...Field)
    Fatal(msg string, fields ...Field)
    With(fields ...Field) Logger
    Named(name string) Logger
    Sync() error
}

// Config defines logger configuration
type Config struct {
    Level         string                 `json:"level" yaml:"level"`
    Encoding      string                 `json:"encoding" yaml:"encoding"`
    OutputPaths   []string               `json:"outputPaths" yaml:"output_paths"`
    ErrorPaths    []string               `json:"errorPaths" yaml:"error_paths"`
    MaxSize       int                    `json:"maxSize" yaml:"max_size"` // MB
    MaxBackups    int                    `json:"maxBackups" yaml:"max_backups"`
    MaxAge        int                    `json:"maxAge" yaml:"max_age"` // days
    Compress      bool                   `json:"compress" yaml:"compress"`
    Development   bool                   `json:"development" yaml:"development"`
    InitialFields map[string]interface{} `json:"initialFields" yaml:"initial_fields"`
}

type logger struct {
    zap *zap.Logger
}

// Option defines logger option function
type Option func(*Config)

// WithLevel sets logger level
func WithLevel(level string) Option {
    return func(c *Config) {
        c.Level = level
    }
}

// WithEncoding sets logger encoding ("json" or "console")
func WithEncoding(encoding string) Option {
    return func(c *Config) {
        c.Encoding = encoding
    }
}

// WithOutputPaths sets logger output paths
func WithOutputPaths(paths []string) Option {
    return func(c *Config) {
        c.OutputPaths = paths
    }
}

// WithErrorPaths sets where zap reports its own internal errors
func WithErrorPaths(paths []string) Option {
    return func(c *Config) {
        c.ErrorPaths = paths
    }
}

// WithFields attaches fields to every entry
func WithFields(fields map[string]interface{}) Option {
    return func(c *Config) {
        for k, v := range fields {
            c.InitialFields[k] = v
        }
    }
}

// WithDevelopment toggles zap development mode
func WithDevelopment(dev bool) Option {
    return func(c *Config) {
        c.Development = dev
    }
}

// NewLogger creates a new logger instance
func NewLogger(opts ...Option) (Logger, error) {
    cfg := &Config{
        Level:         "info",
        Encoding:      "json",
        OutputPaths:   []string{"stdout", "logs/legaldoc.log"},
        ErrorPaths:    []string{"stderr"},
        MaxSize:       100,
        MaxBackups:    3,
        MaxAge:        7,
        Compress:      true,
        Development:   false,
        InitialFields: make(map[string]interface{}),
    }

    for _, opt := range opts {
        opt(cfg)
    }

    for _, path := range append(cfg.OutputPaths, cfg.ErrorPaths...) {
        if isStdStream(path) {
            continue
        }
        if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
            return nil, fmt.Errorf("can't create log directory: %w", err)
        }
    }

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
        EncodeDuration: zapcore.MillisDurationEncoder,
        EncodeCaller:   zapcore.ShortCallerEncoder,
    }

    level := zap.NewAtomicLevel()
    if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
        return nil, fmt.Errorf("can't parse log level: %w", err)
    }

    var cores []zapcore.Core
    for _, path := range cfg.OutputPaths {
        var encoder zapcore.Encoder
        if cfg.Encoding == "json" {
            encoder = zapcore.NewJSONEncoder(encoderConfig)
        } else {
            encoder = zapcore.NewConsoleEncoder(encoderConfig)
        }
        cores = append(cores, zapcore.NewCore(encoder, writerFor(path, cfg), level))
    }

    options := []zap.Option{
        zap.AddCaller(),
        zap.AddCallerSkip(1),
    }

    var errSinks []zapcore.WriteSyncer
    for _, path := range cfg.ErrorPaths {
        errSinks = append(errSinks, writerFor(path, cfg))
    }
    if len(errSinks) > 0 {
        options = append(options, zap.ErrorOutput(zapcore.NewMultiWriteSyncer(errSinks...)))
    }

    if cfg.Development {
        options = append(options, zap.Development())
    }

    if len(cfg.InitialFields) > 0 {
        fields := make([]zap.Field, 0, len(cfg.InitialFields))
        for k, v := range cfg.InitialFields {
            fields = append(fields, zap.Any(k, v))
        }
        options = append(options, zap.Fields(fields...))
    }

    return &logger{zap: zap.New(zapcore.NewTee(cores...), options...)}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
    return &logger{zap: zap.NewNop()}
}

func isStdStream(path string) bool {
    return path == "stdout" || path == "stderr"
}

func writerFor(path string, cfg *Config) zapcore.WriteSyncer {
    switch path {
    case "stdout":
        return zapcore.AddSync(os.Stdout)
    case "stderr":
        return zapcore.AddSync(os.Stderr)
    default:
        return zapcore.AddSync(&lumberjack.Logger{
            Filename:   path,
            MaxSize:    cfg.MaxSize,
            MaxBackups: cfg.MaxBackups,
            MaxAge:     cfg.MaxAge,
            Compress:   cfg.Compress,
        })
    }
}

// Various field constructors
func String(key string, val string) Field          { return zap.String(key, val) }
func Strings(key string, val []string) Field       { return zap.Strings(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Int64(key string, val int64) Field            { return zap.Int64(key, val) }
func Bool(key string, val bool) Field              { return zap.Bool(key, val) }
func Any(key string, val interface{}) Field        { return zap.Any(key, val) }
func Error(err error) Field                        { return zap.Error(err) }
func Time(key string, val time.Time) Field         { return zap.Time(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

func (l *logger) Debug(msg string, fields ...Field) {
    l.zap.Debug(msg, fields...)
}

func (l *logger) Info(msg string, fields ...Field) {
    l.zap.Info(msg, fields...)
}

func (l *logger) Warn(msg string, fields ...Field) {
    l.zap.Warn(msg, fields...)
}

func (l *logger) Error(msg string, fields ...Field) {
    l.zap.Error(msg, fields...)
}

func (l *logger) Fatal(msg string, fields ...Field) {
    l.zap.Fatal(msg, fields...)
}

func (l *logger) With(fields ...Field) Logger {
    return &logger{zap: l.zap.With(fields...)}
}

func (l *logger) Named(name string) Logger {
    return &logger{zap: l.zap.Named(name)}
}

func (l *logger) Sync() error {
    return l.zap.Sync()
}

type ctxKey struct{}

// WithOperationID stores an operation id for FromContext.
func WithOperationID(ctx context.Context, id string) context.Context {
    return context.WithValue(ctx, ctxKey{}, id)
}

// OperationID returns the id stored by WithOperationID, if any.
func OperationID(ctx context.Context) string {
    id, _ := ctx.Value(ctxKey{}).(string)
    return id
}

// FromContext scopes l to the operation carried by ctx.
func FromContext(ctx context.Context, l Logger) Logger {
    if id := OperationID(ctx); id != "" {
        return l.With(String("operation_id", id))
    }
    return l
}

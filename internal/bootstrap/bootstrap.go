// Package bootstrap builds the shared components both binaries start from.
package bootstrap

import (
    "context"
    "fmt"

    "github.com/xprabhudayal/genai/config"
    "github.com/xprabhudayal/genai/internal/agent/simplifier"
    "github.com/xprabhudayal/genai/internal/utils/validator"
    "github.com/xprabhudayal/genai/pkg/logger"
    "github.com/xprabhudayal/genai/pkg/session"
    "github.com/xprabhudayal/genai/pkg/storage"
)

func NewLogger(cfg *config.LogConfig) (logger.Logger, error) {
    opts := []logger.Option{
        logger.WithLevel(cfg.Level),
        logger.WithEncoding(cfg.Encoding),
    }
    if len(cfg.OutputPaths) > 0 {
        opts = append(opts, logger.WithOutputPaths(cfg.OutputPaths))
    }
    if len(cfg.ErrorPaths) > 0 {
        opts = append(opts, logger.WithErrorPaths(cfg.ErrorPaths))
    }
    log, err := logger.NewLogger(opts...)
    if err != nil {
        return nil, fmt.Errorf("failed to create logger: %w", err)
    }
    return log, nil
}

func NewClient(cfg *config.ServiceConfig, log logger.Logger) *simplifier.Client {
    return simplifier.NewClient(&simplifier.Config{
        BaseURL: cfg.BaseURL,
        Timeout: cfg.Timeout,
    }, log)
}

// NewValidator applies the configured limits over the defaults.
func NewValidator(cfg *config.UploadConfig, log logger.Logger) *validator.DocumentValidator {
    vc := validator.DefaultConfig()
    if cfg.MaxFileSize > 0 {
        vc.MaxFileSize = cfg.MaxFileSize
    }
    if len(cfg.AllowedTypes) > 0 {
        vc.AllowedTypes = cfg.AllowedTypes
    }
    return validator.NewDocumentValidator(log, vc)
}

// NewArchive returns nil storage when archiving is disabled.
func NewArchive(ctx context.Context, cfg *config.ArchiveConfig, log logger.Logger) (storage.Storage, error) {
    if cfg.Type == "" || cfg.Type == config.ArchiveNone {
        return nil, nil
    }
    store, err := storage.NewStorage(ctx, cfg, log)
    if err != nil {
        return nil, fmt.Errorf("failed to open %s archive: %w", cfg.Type, err)
    }
    return store, nil
}

func NewSessionStore(ctx context.Context, cfg *config.SessionConfig) (session.Store, error) {
    switch cfg.Type {
    case "", config.SessionMemory:
        return session.NewMemoryStore(), nil
    case config.SessionRedis:
        store, err := session.NewRedisStore(ctx, &session.RedisConfig{
            Addr:     cfg.RedisAddr,
            Password: cfg.RedisPassword,
            DB:       cfg.RedisDB,
            Key:      cfg.Key,
            TTL:      cfg.TTL,
        })
        if err != nil {
            return nil, err
        }
        return store, nil
    default:
        return nil, fmt.Errorf("unsupported session store: %s", cfg.Type)
    }
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Archive backends.
const (
	ArchiveNone  = "none"
	ArchiveS3    = "s3"
	ArchiveMinio = "minio"
)

// Session stores.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// EnvConfigPath names the variable Get reads the config file location from.
const EnvConfigPath = "LEGALDOC_CONFIG"

var (
	once    sync.Once
	current *Config
	loadErr error
)

type Config struct {
	Service ServiceConfig `yaml:"service"`
	Upload  UploadConfig  `yaml:"upload"`
	Gateway GatewayConfig `yaml:"gateway"`
	Archive ArchiveConfig `yaml:"archive"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig locates the remote simplification service.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	// Zero means no client-side deadline.
	Timeout time.Duration `yaml:"timeout"`
}

type UploadConfig struct {
	MaxFileSize  int64               `yaml:"max_file_size"`
	AllowedTypes map[string][]string `yaml:"allowed_types"`
}

type GatewayConfig struct {
	Addr            string        `yaml:"addr"`
	AllowOrigins    []string      `yaml:"allow_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ArchiveConfig struct {
	Type   string      `yaml:"type"`
	Prefix string      `yaml:"prefix"`
	S3     S3Config    `yaml:"s3"`
	Minio  MinioConfig `yaml:"minio"`
}

type SessionConfig struct {
	Type             string        `yaml:"type"`
	RedisAddr        string        `yaml:"redis_addr"`
	RedisPassword    string        `yaml:"redis_password"`
	RedisDB          int           `yaml:"redis_db"`
	Key              string        `yaml:"key"`
	TTL              time.Duration `yaml:"ttl"`
	MaxNotifications int           `yaml:"max_notifications"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"output_paths"`
	ErrorPaths  []string `yaml:"error_paths"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL: "http://localhost:5000",
		},
		Upload: UploadConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
		Gateway: GatewayConfig{
			Addr:            ":8080",
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Archive: ArchiveConfig{
			Type:   ArchiveNone,
			Prefix: "legaldoc",
		},
		Session: SessionConfig{
			Type:             SessionMemory,
			Key:              "legaldoc:session",
			TTL:              24 * time.Hour,
			MaxNotifications: 20,
		},
		Log: LogConfig{
			Level:       "info",
			Encoding:    "json",
			OutputPaths: []string{"logs/legaldoc.log"},
			ErrorPaths:  []string{"stderr"},
		},
	}
}

// Get loads the configuration once, from the file named by LEGALDOC_CONFIG
// if set, and returns it on every later call.
func Get() (*Config, error) {
	once.Do(func() {
		current, loadErr = Load(os.Getenv(EnvConfigPath))
	})
	return current, loadErr
}

// Load builds a configuration from defaults, the optional YAML file at path,
// a .env file beside it (or in the working directory) and the environment,
// in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	envPath := ".env"
	if path != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load %s: %v", envPath, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Service.BaseURL, "LEGALDOC_SERVER_URL")
	setDuration(&c.Service.Timeout, "LEGALDOC_TIMEOUT")
	setString(&c.Gateway.Addr, "LEGALDOC_GATEWAY_ADDR")
	if v := os.Getenv("LEGALDOC_ALLOW_ORIGINS"); v != "" {
		c.Gateway.AllowOrigins = splitList(v)
	}
	setString(&c.Archive.Type, "LEGALDOC_ARCHIVE")
	setString(&c.Archive.Prefix, "LEGALDOC_ARCHIVE_PREFIX")
	c.Archive.S3.applyEnv()
	c.Archive.Minio.applyEnv()
	setString(&c.Session.Type, "LEGALDOC_SESSION")
	setString(&c.Session.RedisAddr, "REDIS_ADDR")
	setString(&c.Session.RedisPassword, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.RedisDB = n
		}
	}
	setDuration(&c.Session.TTL, "LEGALDOC_SESSION_TTL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Encoding, "LOG_ENCODING")
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var problems []string

	if c.Service.BaseURL == "" {
		problems = append(problems, "service.base_url is required")
	} else if !strings.HasPrefix(c.Service.BaseURL, "http://") && !strings.HasPrefix(c.Service.BaseURL, "https://") {
		problems = append(problems, fmt.Sprintf("service.base_url %q must be an http(s) URL", c.Service.BaseURL))
	}
	if c.Service.Timeout < 0 {
		problems = append(problems, "service.timeout must not be negative")
	}
	if c.Upload.MaxFileSize <= 0 {
		problems = append(problems, "upload.max_file_size must be positive")
	}

	switch c.Archive.Type {
	case "", ArchiveNone:
	case ArchiveS3:
		problems = append(problems, c.Archive.S3.validate()...)
	case ArchiveMinio:
		problems = append(problems, c.Archive.Minio.validate()...)
	default:
		problems = append(problems, fmt.Sprintf("archive.type %q is not one of none, s3, minio", c.Archive.Type))
	}

	switch c.Session.Type {
	case "", SessionMemory:
	case SessionRedis:
		if c.Session.RedisAddr == "" {
			problems = append(problems, "session.redis_addr is required for the redis session store")
		}
	default:
		problems = append(problems, fmt.Sprintf("session.type %q is not one of memory, redis", c.Session.Type))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not recognised", c.Log.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage kinds.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// Config holds server settings.
type Config struct {
	Addr          string
	SchemaPath    string
	DataDir       string
	Storage       string
	CachePages    int
	LogLevel      string
	FlushInterval time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:       "127.0.0.1:8080",
		SchemaPath: "schema.json",
		DataDir:    "./data",
		Storage:    StorageFile,
		CachePages: 64,
		LogLevel:   "info",
	}
}

// Load builds a Config from defaults, then TINYDB_* environment variables,
// then command-line args. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("tinydb-server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP address to listen on")
	fs.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "path to the schema document")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory for table files (file storage)")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage engine: memory or file")
	fs.IntVar(&cfg.CachePages, "cache-pages", cfg.CachePages, "number of pages kept in the page cache")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.DurationVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "fsync table files this often (0 = only on shutdown)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("config: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromOS is Load over the process arguments and environment.
func LoadFromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv, os.Stderr)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("TINYDB_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("TINYDB_SCHEMA"); v != "" {
		c.SchemaPath = v
	}
	if v := getenv("TINYDB_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("TINYDB_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := getenv("TINYDB_CACHE_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TINYDB_CACHE_PAGES: %w", err)
		}
		c.CachePages = n
	}
	if v := getenv("TINYDB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("TINYDB_FLUSH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TINYDB_FLUSH_INTERVAL: %w", err)
		}
		c.FlushInterval = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: empty listen address")
	}
	if c.SchemaPath == "" {
		return fmt.Errorf("config: empty schema path")
	}
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("config: file storage needs a data directory")
		}
	default:
		return fmt.Errorf("config: unknown storage %q (want %s or %s)", c.Storage, StorageMemory, StorageFile)
	}
	if c.CachePages <= 0 {
		return fmt.Errorf("config: cache pages must be positive, got %d", c.CachePages)
	}
	if c.FlushInterval < 0 {
		return fmt.Errorf("config: negative flush interval %v", c.FlushInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return lvl, nil
}

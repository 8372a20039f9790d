package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL  time.Duration `yaml:"job_ttl"`
	DataDir string        `yaml:"data_dir"`

	// Site generation
	OutputDir      string `yaml:"html_dir"`
	Depth          int    `yaml:"depth"`
	AddNavigation  bool   `yaml:"add_navigation"`
	ApidocDir      string `yaml:"apidoc_dir"`
	SymbolsFile    string `yaml:"symbols_file"`
	APIPrefix      string `yaml:"api_prefix"`
	Stylesheet     string `yaml:"stylesheet"`
	ImageConverter string `yaml:"image_converter"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSITE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:  envDuration("JOB_TTL", 1*time.Hour),
		DataDir: envOr("DOCSITE_DATA_DIR", os.TempDir()),

		OutputDir:      envOr("DOCSITE_HTML_DIR", "html"),
		Depth:          envInt("DOCSITE_DEPTH", 0),
		AddNavigation:  envBool("DOCSITE_ADD_NAVIGATION", false),
		ApidocDir:      os.Getenv("DOCSITE_APIDOC_DIR"),
		SymbolsFile:    os.Getenv("DOCSITE_SYMBOLS_FILE"),
		APIPrefix:      envOr("DOCSITE_API_PREFIX", "api"),
		Stylesheet:     envOr("DOCSITE_STYLESHEET", "doc.css"),
		ImageConverter: envOr("DOCSITE_IMAGE_CONVERTER", "convert"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	cfg.applyDefaults()
	return cfg
}

// LoadFile reads the environment defaults and overlays the YAML file at
// path. Keys absent from the file keep their environment values.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.Stylesheet == "" {
		c.Stylesheet = "doc.css"
	}
	if c.ImageConverter == "" {
		c.ImageConverter = "convert"
	}
}

// Validate checks the settings every generation run needs.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("html_dir is required")
	}
	if c.Depth < 0 {
		return fmt.Errorf("depth must be >= 0, got %d", c.Depth)
	}
	return nil
}

// ValidateServer additionally checks the settings of the HTTP service.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return errors.New("DOCSITE_API_KEY is required")
	}
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the env var pointing at an optional YAML config file.
const ConfigFileEnv = "SPEEDREAD_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// Auth; empty disables bearer token checks.
	APIKey string `yaml:"api_key"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	UploadTimeout  time.Duration `yaml:"upload_timeout"`

	// Session state
	JobTTL          time.Duration `yaml:"job_ttl"`
	DocumentTTL     time.Duration `yaml:"document_ttl"`
	MaxDocuments    int           `yaml:"max_documents"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                 "8000",
		AllowedOrigins:       []string{"http://localhost:5173", "http://localhost:3000"},
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		UploadTimeout:        2 * time.Minute,
		JobTTL:               1 * time.Hour,
		DocumentTTL:          2 * time.Hour,
		MaxDocuments:         200,
		CleanupInterval:      5 * time.Minute,
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// SPEEDREAD_CONFIG if set, then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("API_KEY", cfg.APIKey)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.UploadTimeout = envDuration("UPLOAD_TIMEOUT", cfg.UploadTimeout)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.DocumentTTL = envDuration("DOCUMENT_TTL", cfg.DocumentTTL)
	cfg.MaxDocuments = envInt("MAX_DOCUMENTS", cfg.MaxDocuments)
	cfg.CleanupInterval = envDuration("CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks replaces non-positive values with defaults.
func (c *Config) applyFallbacks() {
	d := Defaults()
	if c.Port == "" {
		c.Port = d.Port
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = d.UploadTimeout
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.DocumentTTL <= 0 {
		c.DocumentTTL = d.DocumentTTL
	}
	if c.MaxDocuments < 0 {
		c.MaxDocuments = d.MaxDocuments
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	for _, o := range c.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("ALLOWED_ORIGINS entry %q must be * or an http(s) origin", o)
		}
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

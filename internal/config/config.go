package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"CFI Data Update Tool"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	}

	// Report describes where the target table lives inside the government export.
	Report struct {
		TableTitle       string `envconfig:"REPORT_TABLE_TITLE" default:"All Credible Fear Cases"`
		MatchThreshold   int    `envconfig:"REPORT_MATCH_THRESHOLD" default:"80"`
		SkipRows         int    `envconfig:"REPORT_SKIP_ROWS" default:"0"`
		Sheet            string `envconfig:"REPORT_SHEET"`
		PrimaryEncoding  string `envconfig:"REPORT_PRIMARY_ENCODING" default:"utf-8"`
		FallbackEncoding string `envconfig:"REPORT_FALLBACK_ENCODING" default:"windows-1252"`
	}

	Truth struct {
		Path      string `envconfig:"TRUTH_PATH" default:"cfi_truth.csv"`
		BackupDir string `envconfig:"TRUTH_BACKUP_DIR" default:"backups"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) Validate() error {
	// A label must score above the threshold, so 100 never matches and 0
	// would read as "use the default" to the parser.
	if c.Report.MatchThreshold < 1 || c.Report.MatchThreshold > 99 {
		return fmt.Errorf("report match threshold must be within 1-99, got %d", c.Report.MatchThreshold)
	}

	if c.Report.SkipRows < 0 {
		return fmt.Errorf("report skip rows must not be negative, got %d", c.Report.SkipRows)
	}

	if c.Truth.Path == "" {
		return fmt.Errorf("truth path is required")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

package baseline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the governance engine.
type Config struct {
	// AdminRoles is the allow-list of roles permitted to mutate baselines.
	AdminRoles []string `yaml:"adminRoles" json:"adminRoles"`

	// AuditRetention controls how long audit events are kept.
	AuditRetention AuditRetentionConfig `yaml:"auditRetention" json:"auditRetention"`

	// Cache controls response caching for the read-heavy guard endpoints.
	Cache CacheSettings `yaml:"cache" json:"cache"`
}

// AuditRetentionConfig holds audit retention configuration.
type AuditRetentionConfig struct {
	Days int `yaml:"days" json:"days"`
}

// CacheSettings holds cache tuning for guard-check responses.
type CacheSettings struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	MaxSize    int  `yaml:"maxSize" json:"maxSize"`
	TTLSeconds int  `yaml:"ttlSeconds" json:"ttlSeconds"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() *Config {
	return &Config{
		AdminRoles:     []string{"OWNER", "ORG_ADMIN"},
		AuditRetention: AuditRetentionConfig{Days: 365},
		Cache: CacheSettings{
			Enabled:    true,
			MaxSize:    1024,
			TTLSeconds: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.AuditRetention.Days < 0 {
		return nil, fmt.Errorf("auditRetention.days must be non-negative")
	}
	return cfg, nil
}

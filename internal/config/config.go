// Path: internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Placeholder values shipped in example env files. They count as "not set".
const (
	placeholderURL = "your_supabase_project_url"
	placeholderKey = "your_supabase_anon_key"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	UniProt  UniProtConfig
	Log      LogConfig
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds the remote store connection settings.
// URL and Key are the two secrets; without both the service runs on the
// fallback dataset.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	Key        string `mapstructure:"key"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

// StoreConfig throttles calls to the remote store.
type StoreConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
	BurstLimit        int `mapstructure:"burst_limit"`
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
}

// Timeout returns the per-call deadline.
func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UniProtConfig holds settings for the UniProt importer.
type UniProtConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	Query             string `mapstructure:"query"`
	PageSize          int    `mapstructure:"page_size"`
	MaxPages          int    `mapstructure:"max_pages"`
	RequestsPerSecond int    `mapstructure:"requests_per_second"`
	BurstLimit        int    `mapstructure:"burst_limit"`
}

// LogConfig selects the log level and output format ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Configured reports whether the remote store can be used at all.
// Missing or placeholder secrets, or a URL the driver cannot dial, all
// select fallback mode.
func (c DatabaseConfig) Configured() bool {
	url := strings.TrimSpace(c.URL)
	key := strings.TrimSpace(c.Key)
	if url == "" || key == "" || url == placeholderURL || key == placeholderKey {
		return false
	}
	switch c.Driver {
	case DriverPostgres:
		return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
	case DriverMongo:
		return strings.HasPrefix(url, "mongodb://") || strings.HasPrefix(url, "mongodb+srv://")
	default:
		return false
	}
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	return load(viper.New(), "./configs")
}

func load(v *viper.Viper, configPaths ...string) (*Config, error) {
	// Set default values
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("DATABASE.DRIVER", DriverPostgres)
	v.SetDefault("DATABASE.URL", "")
	v.SetDefault("DATABASE.KEY", "")
	v.SetDefault("DATABASE.NAME", "gene_catalog")
	v.SetDefault("DATABASE.COLLECTION", "genes")
	v.SetDefault("STORE.REQUESTS_PER_SECOND", 50)
	v.SetDefault("STORE.BURST_LIMIT", 100)
	v.SetDefault("STORE.TIMEOUT_SECONDS", 5)
	v.SetDefault("UNIPROT.BASE_URL", "https://rest.uniprot.org")
	v.SetDefault("UNIPROT.QUERY", "(ec:*) AND (organism_id:4097)")
	v.SetDefault("UNIPROT.PAGE_SIZE", 100)
	v.SetDefault("UNIPROT.MAX_PAGES", 50)
	v.SetDefault("UNIPROT.REQUESTS_PER_SECOND", 5)
	v.SetDefault("UNIPROT.BURST_LIMIT", 10)
	v.SetDefault("LOG.LEVEL", "info")
	v.SetDefault("LOG.FORMAT", "console")

	// Load from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err // Only return error if it's not a "file not found" error
		}
	}

	// Load from environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

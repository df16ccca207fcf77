package config

import (
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the fixed location of the service configuration,
// relative to the working directory.
const ConfigPath = "config/announcements.yaml"

// Config holds the service configuration loaded from the YAML file.
type Config struct {
	Service struct {
		Name        string `yaml:"name"`
		HTTPPort    int    `yaml:"httpPort"`
		SwaggerPort int    `yaml:"swaggerPort"`
	} `yaml:"service"`
	Paths struct {
		OpenapiYaml     string `yaml:"openapiYaml"`
		DefinitionsYaml string `yaml:"definitionsYaml"`
	} `yaml:"paths"`
	DB struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Database string `yaml:"database"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Schema   string `yaml:"schema"`
		SSL      bool   `yaml:"ssl"`
	} `yaml:"db"`
	Debug bool `yaml:"debug"`

	// raw retains the document as parsed, for schema validation.
	raw map[string]any
}

var (
	loadOnce  sync.Once
	cachedCfg *Config
	cachedErr error
)

// Load reads and parses the configuration file at ConfigPath. The result
// is cached for the remainder of the process lifetime.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		// .env is optional; it only carries toggles like ENABLE_SWAGGER_STATS.
		_ = godotenv.Load()

		cachedCfg, cachedErr = loadFile(ConfigPath)
	})
	return cachedCfg, cachedErr
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg.raw); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Raw returns the configuration document as parsed, before typing.
func (c *Config) Raw() map[string]any {
	return c.raw
}

// DatabaseURL derives the connection URL from the db fields. User and
// password are URL-escaped. The schema travels as search_path, which is
// how the pgx driver selects a schema, and ssl adds sslmode=require.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   "/" + c.DB.Database,
	}

	params := url.Values{}
	params.Set("search_path", c.DB.Schema)
	if c.DB.SSL {
		params.Set("sslmode", "require")
	}
	u.RawQuery = params.Encode()

	return u.String()
}

// EnsureDatabaseURLEnv publishes the derived URL as DATABASE_URL for the
// db layer to consume, and returns it.
func (c *Config) EnsureDatabaseURLEnv() string {
	dbURL := c.DatabaseURL()
	os.Setenv("DATABASE_URL", dbURL)
	return dbURL
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Parser   ParserConfig   `mapstructure:"parser"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Export   ExportConfig   `mapstructure:"export"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ParserConfig holds the command parser policy
type ParserConfig struct {
	DefaultType     string        `mapstructure:"default_type"` // cash-in or cash-out
	CurrencySymbol  string        `mapstructure:"currency_symbol"`
	DefaultCustomer string        `mapstructure:"default_customer"`
	QuickCapture    bool          `mapstructure:"quick_capture"`
	LookupTimeout   time.Duration `mapstructure:"lookup_timeout"`
}

// CatalogConfig holds price catalog configuration
type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// OpenAIConfig holds the optional LLM fallback configuration.
// The fallback is disabled when APIKey is empty.
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	PromptsPath string        `mapstructure:"prompts_path"`
}

// Enabled reports whether the LLM fallback should be wired
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from a YAML file, an optional .env file and environment variables
func Load(configPath string) (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// LoadOrDefault behaves like Load but falls back to defaults and environment when configPath
// is empty or the file does not exist
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() (*viper.Viper, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindEnvVars(v)
	return v, nil
}

// loadDotEnv reads .env into the process environment without overriding existing variables.
// A missing file is not an error.
func loadDotEnv() error {
	err := gotenv.Load(".env")
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.path", "data/ledger.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("parser.default_type", "cash-in")
	v.SetDefault("parser.currency_symbol", "₹")
	v.SetDefault("parser.default_customer", "Walk-in")
	v.SetDefault("parser.quick_capture", false)
	v.SetDefault("parser.lookup_timeout", 2*time.Second)

	v.SetDefault("catalog.cache_ttl", 5*time.Minute)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.timeout", 20*time.Second)

	v.SetDefault("export.sheet_name", "Ledger")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the variables that do not follow the SECTION_KEY naming
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("database.path", "LEDGER_DB_PATH")
	_ = v.BindEnv("server.port", "PORT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}

	switch c.Parser.DefaultType {
	case "cash-in", "cash-out":
	default:
		return fmt.Errorf("parser.default_type must be cash-in or cash-out, got %q", c.Parser.DefaultType)
	}
	if c.Parser.DefaultCustomer == "" {
		return errors.New("parser.default_customer is required")
	}

	if c.Catalog.CacheTTL < 0 {
		return errors.New("catalog.cache_ttl must not be negative")
	}
	if c.OpenAI.Enabled() && c.OpenAI.Model == "" {
		return errors.New("openai.model is required when openai.api_key is set")
	}
	return nil
}

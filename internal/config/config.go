package config

import (
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	litetableDir   = ".litetable"
	configFileName = "sink.yaml"

	// EnvPrefix prefixes environment overrides, e.g. LITETABLE_SINK_STORE_ADDRESS.
	EnvPrefix = "LITETABLE_SINK"

	SourcePostgres = "postgres"
	SourceJSONL    = "jsonl"
)

type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	App        AppConfig        `mapstructure:"app"`
	Store      StoreConfig      `mapstructure:"store"`
	Sink       SinkConfig       `mapstructure:"sink"`
	Source     SourceConfig     `mapstructure:"source"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AppConfig struct {
	StopTimeout time.Duration `mapstructure:"stop_timeout"`
}

type StoreConfig struct {
	Address        string     `mapstructure:"address"`
	Namespace      string     `mapstructure:"namespace"`
	Table          string     `mapstructure:"table"`
	CreateFamilies bool       `mapstructure:"create_families"`
	DeleteTTL      int        `mapstructure:"delete_ttl"`
	Auth           AuthConfig `mapstructure:"auth"`
	// CDCAddress is the change stream the tail command follows.
	CDCAddress string `mapstructure:"cdc_address"`
}

type AuthConfig struct {
	CredentialFile string `mapstructure:"credential_file"`
	Principal      string `mapstructure:"principal"`
	RealmConfig    string `mapstructure:"realm_config"`
	ClientSecurity bool   `mapstructure:"client_security"`
}

type SinkConfig struct {
	RowKey         string            `mapstructure:"row_key"`
	Mode           string            `mapstructure:"mode"`
	Columns        []string          `mapstructure:"columns"`
	Types          []string          `mapstructure:"types"`
	ColumnFamilies map[string]string `mapstructure:"column_families"`
	DirtyLog       string            `mapstructure:"dirty_log"`
}

type SourceConfig struct {
	Type     string         `mapstructure:"type"`
	JSONL    JSONLConfig    `mapstructure:"jsonl"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type JSONLConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Database    string `mapstructure:"database"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Slot        string `mapstructure:"slot"`
	Publication string `mapstructure:"publication"`
	Table       string `mapstructure:"table"`
	CreateSlot  bool   `mapstructure:"create_slot"`
}

type CheckpointConfig struct {
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// defaults also make every key visible to environment overrides.
var defaults = map[string]any{
	"log.level":                   "info",
	"log.format":                  "json",
	"app.stop_timeout":            "5s",
	"store.address":               "127.0.0.1:9443",
	"store.namespace":             "",
	"store.table":                 "",
	"store.create_families":       true,
	"store.delete_ttl":            0,
	"store.cdc_address":           "127.0.0.1:32473",
	"store.auth.credential_file":  "",
	"store.auth.principal":        "",
	"store.auth.realm_config":     "",
	"store.auth.client_security":  false,
	"sink.row_key":                "",
	"sink.mode":                   "",
	"sink.dirty_log":              "",
	"source.type":                 SourceJSONL,
	"source.jsonl.path":           "",
	"source.postgres.host":        "",
	"source.postgres.port":        5432,
	"source.postgres.database":    "",
	"source.postgres.user":        "",
	"source.postgres.password":    "",
	"source.postgres.slot":        "litetable_sink",
	"source.postgres.publication": "",
	"source.postgres.table":       "",
	"source.postgres.create_slot": false,
	"checkpoint.path":             "",
	"metrics.address":             "",
}

// DefaultDir is the LiteTable directory in the user's home directory.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, litetableDir), nil
}

// Option overrides settings after the file and environment are read, before validation.
type Option func(v *viper.Viper)

// WithJSONLSource replays the file at path, whatever source the file configures.
func WithJSONLSource(path string) Option {
	return func(v *viper.Viper) {
		v.Set("source.type", SourceJSONL)
		v.Set("source.jsonl.path", path)
	}
}

// Load reads the YAML file at path, applies environment overrides and validates the result.
// With an empty path the file in DefaultDir is used when it exists; otherwise only defaults and
// the environment apply.
func Load(path string, opts ...Option) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	required := path != ""
	if !required {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFileName)
	}

	if _, err := os.Stat(path); err == nil || required {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range v.AllKeys() {
		val, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if expanded := os.ExpandEnv(val); expanded != val {
			v.Set(key, expanded)
		}
	}

	for _, opt := range opts {
		opt(v)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings every command needs. Sink settings are checked when the
// translator is built.
func (c *Config) Validate() error {
	var errGrp []error

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errGrp = append(errGrp, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errGrp = append(errGrp, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.App.StopTimeout <= 0 {
		errGrp = append(errGrp, errors.New("app.stop_timeout must be positive"))
	}
	if c.Store.DeleteTTL < 0 {
		errGrp = append(errGrp, errors.New("store.delete_ttl cannot be negative"))
	}

	switch c.Source.Type {
	case SourceJSONL:
	case SourcePostgres:
		pg := c.Source.Postgres
		if pg.Host == "" {
			errGrp = append(errGrp, errors.New("source.postgres.host is required"))
		}
		if pg.Database == "" {
			errGrp = append(errGrp, errors.New("source.postgres.database is required"))
		}
		if pg.User == "" {
			errGrp = append(errGrp, errors.New("source.postgres.user is required"))
		}
		if pg.Publication == "" {
			errGrp = append(errGrp, errors.New("source.postgres.publication is required"))
		}
	default:
		errGrp = append(errGrp, fmt.Errorf("source.type must be %s or %s, got %q",
			SourcePostgres, SourceJSONL, c.Source.Type))
	}

	return errors.Join(errGrp...)
}

// Families returns the column family mapping keyed by configured column name. YAML keys come
// back lowercased, so they are matched to columns without regard to case.
func (c *Config) Families() map[string]string {
	if len(c.Sink.ColumnFamilies) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Sink.ColumnFamilies))
	for key, coord := range c.Sink.ColumnFamilies {
		name := key
		for _, col := range c.Sink.Columns {
			if strings.EqualFold(col, key) {
				name = col
				break
			}
		}
		out[name] = coord
	}
	return out
}

// PostgresTable is the replicated table, defaulting to the store table.
func (c *Config) PostgresTable() string {
	if c.Source.Postgres.Table != "" {
		return c.Source.Postgres.Table
	}
	return c.Store.Table
}

// DeleteTTL is store.delete_ttl in seconds as a duration.
func (c *Config) DeleteTTL() time.Duration {
	return time.Duration(c.Store.DeleteTTL) * time.Second
}

// LogLevel is the parsed log.level. It falls back to info for values Validate rejects.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

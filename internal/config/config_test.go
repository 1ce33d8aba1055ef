package config

import (
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
log:
  level: debug
  format: console
app:
  stop_timeout: 10s
store:
  address: litetable:9443
  namespace: /prod
  table: users
  delete_ttl: 90
  auth:
    principal: sink@EXAMPLE
sink:
  row_key: "md5(userId) + '_' + name"
  mode: upsert
  columns: [userId, name, age]
  types: [bigint, string, int]
  column_families:
    userId: "cf:id"
    name: "cf:name"
source:
  type: postgres
  postgres:
    host: db
    database: app
    user: sink
    password: ${TEST_SINK_PG_PASSWORD}
    publication: sink_pub
checkpoint:
  path: /var/lib/sink/checkpoint.db
metrics:
  address: ":9102"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	req := require.New(t)
	t.Setenv("TEST_SINK_PG_PASSWORD", "s3cret")
	t.Setenv("LITETABLE_SINK_STORE_ADDRESS", "override:9443")

	cfg, err := Load(writeConfig(t, sampleConfig))
	req.NoError(err)

	req.Equal(zerolog.DebugLevel, cfg.LogLevel())
	req.Equal("console", cfg.Log.Format)
	req.Equal(10*time.Second, cfg.App.StopTimeout)

	req.Equal("override:9443", cfg.Store.Address)
	req.Equal("/prod", cfg.Store.Namespace)
	req.Equal("users", cfg.Store.Table)
	req.True(cfg.Store.CreateFamilies)
	req.Equal(90*time.Second, cfg.DeleteTTL())
	req.Equal("sink@EXAMPLE", cfg.Store.Auth.Principal)
	req.Equal("127.0.0.1:32473", cfg.Store.CDCAddress)

	req.Equal("md5(userId) + '_' + name", cfg.Sink.RowKey)
	req.Equal([]string{"userId", "name", "age"}, cfg.Sink.Columns)
	req.Equal([]string{"bigint", "string", "int"}, cfg.Sink.Types)
	req.Equal(map[string]string{"userId": "cf:id", "name": "cf:name"}, cfg.Families())

	req.Equal(SourcePostgres, cfg.Source.Type)
	req.Equal("s3cret", cfg.Source.Postgres.Password)
	req.Equal(5432, cfg.Source.Postgres.Port)
	req.Equal("litetable_sink", cfg.Source.Postgres.Slot)
	req.Equal("users", cfg.PostgresTable())
	req.Equal("/var/lib/sink/checkpoint.db", cfg.Checkpoint.Path)
	req.Equal(":9102", cfg.Metrics.Address)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
log: { level: loud, format: xml }
source: { type: postgres }
`))
		require.Error(t, err)
		for _, msg := range []string{
			"log.level",
			"log.format must be json or console",
			"source.postgres.host is required",
			"source.postgres.publication is required",
		} {
			require.Contains(t, err.Error(), msg)
		}
	})
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LITETABLE_SINK_SINK_MODE", "insert-only")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 5*time.Second, cfg.App.StopTimeout)
	require.Equal(t, SourceJSONL, cfg.Source.Type)
	require.Equal(t, "insert-only", cfg.Sink.Mode)
	require.Nil(t, cfg.Families())
}

func TestLoad_WithJSONLSource(t *testing.T) {
	req := require.New(t)

	cfg, err := Load(writeConfig(t, `
store: { address: "litetable:9443", table: users }
sink: { row_key: id, columns: [id] }
`), WithJSONLSource("events.jsonl"))
	req.NoError(err)
	req.Equal(SourceJSONL, cfg.Source.Type)
	req.Equal("events.jsonl", cfg.Source.JSONL.Path)

	// a half configured postgres source does not block a replay
	cfg, err = Load(writeConfig(t, `
source: { type: postgres, postgres: { host: db } }
`), WithJSONLSource("-"))
	req.NoError(err)
	req.Equal(SourceJSONL, cfg.Source.Type)
	req.Equal("-", cfg.Source.JSONL.Path)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Log:    LogConfig{Level: "info", Format: "json"},
			App:    AppConfig{StopTimeout: time.Second},
			Source: SourceConfig{Type: SourceJSONL},
		}
	}

	tests := map[string]struct {
		mutate func(c *Config)
		error  string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"no stop timeout": {
			mutate: func(c *Config) { c.App.StopTimeout = 0 },
			error:  "app.stop_timeout must be positive",
		},
		"negative ttl": {
			mutate: func(c *Config) { c.Store.DeleteTTL = -1 },
			error:  "store.delete_ttl cannot be negative",
		},
		"unknown source": {
			mutate: func(c *Config) { c.Source.Type = "kafka" },
			error:  `source.type must be postgres or jsonl, got "kafka"`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.error == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, test.error)
		})
	}
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"github.com/litetable/litetable-db/pkg/proto"
	"github.com/litetable/litetable-sink/internal/config"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "json"},
		App: config.AppConfig{StopTimeout: time.Second},
		Store: config.StoreConfig{
			Address: "127.0.0.1:9443",
			Table:   "users",
		},
		Sink: config.SinkConfig{
			RowKey:         "id",
			Mode:           "upsert",
			Columns:        []string{"id", "name"},
			ColumnFamilies: map[string]string{"id": "cf:id", "name": "cf:name"},
			DirtyLog:       t.TempDir(),
		},
		Source: config.SourceConfig{
			Type:  config.SourceJSONL,
			JSONL: config.JSONLConfig{Path: "events.jsonl"},
		},
	}
}

func TestInitialize(t *testing.T) {
	t.Run("jsonl source", func(t *testing.T) {
		application, err := initialize(testConfig(t))
		require.NoError(t, err)
		require.NotNil(t, application)
	})

	t.Run("postgres source with checkpoint", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Source = config.SourceConfig{
			Type: config.SourcePostgres,
			Postgres: config.PostgresConfig{
				Host:        "db",
				Database:    "app",
				User:        "sink",
				Slot:        "litetable_sink",
				Publication: "sink_pub",
			},
		}
		cfg.Checkpoint.Path = filepath.Join(t.TempDir(), "checkpoint.db")

		application, err := initialize(cfg)
		require.NoError(t, err)
		require.NotNil(t, application)
	})

	t.Run("bad row key", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Sink.RowKey = "md5(id"

		_, err := initialize(cfg)
		var cfgErr *translator.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "row key", cfgErr.Field)
	})
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "litetable-sink dev\n", out.String())
}

// litetableServer keeps the rows written to it.
type litetableServer struct {
	proto.UnimplementedLitetableServiceServer

	mu      sync.Mutex
	writes  []*proto.WriteRequest
	deletes []*proto.DeleteRequest
}

func (l *litetableServer) Write(_ context.Context, msg *proto.WriteRequest) (*proto.LitetableData, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes = append(l.writes, msg)
	return &proto.LitetableData{}, nil
}

func (l *litetableServer) Delete(_ context.Context, msg *proto.DeleteRequest) (*proto.Empty, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deletes = append(l.deletes, msg)
	return &proto.Empty{}, nil
}

func TestReplayCommand(t *testing.T) {
	req := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	defer listener.Close()

	server := &litetableServer{}
	srv := grpc.NewServer()
	proto.RegisterLitetableServiceServer(srv, server)
	go func() {
		_ = srv.Serve(listener)
	}()
	defer srv.GracefulStop()

	dir := t.TempDir()
	// no source section: the sink must not need PostgreSQL settings to replay
	cfgPath := filepath.Join(dir, "sink.yaml")
	req.NoError(os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
store:
  address: %s
  table: users
  create_families: false
sink:
  row_key: id
  mode: upsert
  columns: [id, name]
  column_families:
    id: "cf:id"
    name: "cf:name"
`, listener.Addr().String())), 0600))

	events := filepath.Join(dir, "events.jsonl")
	req.NoError(os.WriteFile(events, []byte(`{"upsert":true,"row":{"id":"1","name":"alice"}}
{"upsert":false,"row":["2","bob"]}
`), 0600))

	rootCmd.SetArgs([]string{"replay", events, "--config", cfgPath})
	defer func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
	}()
	req.NoError(rootCmd.ExecuteContext(context.Background()))

	server.mu.Lock()
	defer server.mu.Unlock()
	req.Len(server.writes, 1)
	req.Equal("1", server.writes[0].GetRowKey())
	req.Equal("cf", server.writes[0].GetFamily())
	req.Len(server.deletes, 1)
	req.Equal("2", server.deletes[0].GetRowKey())
}

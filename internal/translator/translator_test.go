package translator

import (
	"errors"
	"github.com/litetable/litetable-sink/internal/rowkey"
	"github.com/stretchr/testify/require"
	"testing"
)

func newTestTranslator(t *testing.T, mode Mode) *Translator {
	t.Helper()
	tr, err := New(&Config{
		Address:  "127.0.0.1:9443",
		Table:    "users",
		RowKey:   "id",
		Columns:  []string{"id", "name", "age"},
		Families: map[string]string{"id": "cf:id", "name": "cf:name"},
		Mode:     string(mode),
	})
	require.NoError(t, err)
	return tr
}

func TestNew(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Address:  "127.0.0.1:9443",
			Table:    "users",
			RowKey:   "id",
			Columns:  []string{"id", "name"},
			Families: map[string]string{"name": "cf:name"},
			Mode:     "UPSERT",
		}
	}

	tests := map[string]struct {
		mutate func(c *Config)
		fields []string
	}{
		"valid": {
			mutate: func(c *Config) {},
		},
		"empty config": {
			mutate: func(c *Config) { *c = Config{} },
			fields: []string{"address", "table", "columns", "row key"},
		},
		"blank address": {
			mutate: func(c *Config) { c.Address = "  " },
			fields: []string{"address"},
		},
		"missing table": {
			mutate: func(c *Config) { c.Table = "" },
			fields: []string{"table"},
		},
		"row key references unknown column": {
			mutate: func(c *Config) { c.RowKey = "tenant + id" },
			fields: []string{"row key"},
		},
		"malformed row key": {
			mutate: func(c *Config) { c.RowKey = "md5(id" },
			fields: []string{"row key"},
		},
		"bad family entry": {
			mutate: func(c *Config) { c.Families = map[string]string{"name": "cfname"} },
			fields: []string{"column families"},
		},
		"family for a column that is not configured": {
			mutate: func(c *Config) { c.Families = map[string]string{"nmae": "cf:name"} },
			fields: []string{"column families"},
		},
		"types length mismatch": {
			mutate: func(c *Config) { c.Types = []string{"int"} },
			fields: []string{"types"},
		},
		"unknown mode": {
			mutate: func(c *Config) { c.Mode = "merge" },
			fields: []string{"mode"},
		},
		"no families is allowed": {
			mutate: func(c *Config) { c.Families = nil },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			cfg := valid()
			tc.mutate(cfg)

			got, err := New(cfg)
			if len(tc.fields) == 0 {
				req.NoError(err)
				req.NotNil(got)
				return
			}

			req.Error(err)
			req.Nil(got)
			var cfgErr *ConfigError
			req.True(errors.As(err, &cfgErr))
			for _, field := range tc.fields {
				req.Contains(err.Error(), "invalid "+field)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Mode
		wantErr bool
	}{
		"empty":       {in: "", want: ModeInsertOnly},
		"append":      {in: "APPEND", want: ModeInsertOnly},
		"insert-only": {in: "insert-only", want: ModeInsertOnly},
		"upsert":      {in: "Upsert", want: ModeUpsert},
		"unknown":     {in: "replace", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTranslator_Translate(t *testing.T) {
	t.Run("upsert with null and unmapped column", func(t *testing.T) {
		req := require.New(t)
		tr := newTestTranslator(t, ModeUpsert)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{"7", "alice", nil}})

		req.Equal(KindWrite, got.Kind)
		req.Nil(got.Delete)
		req.Equal(&WriteRequest{
			RowKey: []byte("7"),
			Cells: []Cell{
				{Family: "cf", Qualifier: "id", Value: []byte("7")},
				{Family: "cf", Qualifier: "name", Value: []byte("alice")},
			},
		}, got.Write)
		req.Equal(Stats{}, tr.Stats())
	})

	t.Run("unmapped column never becomes a cell", func(t *testing.T) {
		tr := newTestTranslator(t, ModeUpsert)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{"7", nil, 30}})

		require.Equal(t, KindWrite, got.Kind)
		require.Equal(t, []Cell{{Family: "cf", Qualifier: "id", Value: []byte("7")}}, got.Write.Cells)
	})

	t.Run("retract in upsert mode deletes", func(t *testing.T) {
		tr := newTestTranslator(t, ModeUpsert)

		got := tr.Translate(ChangeEvent{Upsert: false, Row: []any{"7", "alice", 30}})

		require.Equal(t, KindDelete, got.Kind)
		require.Equal(t, &DeleteRequest{RowKey: []byte("7")}, got.Delete)
		require.Nil(t, got.Write)
	})

	t.Run("retract in insert-only mode is skipped", func(t *testing.T) {
		tr := newTestTranslator(t, ModeInsertOnly)

		got := tr.Translate(ChangeEvent{Upsert: false, Row: []any{"7", "alice", 30}})

		require.Equal(t, Outcome{Kind: KindSkip}, got)
		require.Equal(t, Stats{}, tr.Stats())
	})

	t.Run("null row key is dirty on both paths", func(t *testing.T) {
		for _, upsert := range []bool{true, false} {
			tr := newTestTranslator(t, ModeUpsert)

			got := tr.Translate(ChangeEvent{Upsert: upsert, Row: []any{nil, "alice", 30}})

			require.Equal(t, KindDirty, got.Kind)
			require.ErrorIs(t, got.Err, ErrBlankRowKey)
			require.Nil(t, got.Write)
			require.Nil(t, got.Delete)
			require.Equal(t, Stats{DirtyRecords: 1}, tr.Stats())
		}
	})

	t.Run("blank row key is dirty", func(t *testing.T) {
		tr := newTestTranslator(t, ModeInsertOnly)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{" ", "alice", 30}})

		require.Equal(t, KindDirty, got.Kind)
		require.Equal(t, uint64(1), tr.Stats().DirtyRecords)
	})

	t.Run("wrong arity is dirty", func(t *testing.T) {
		tr := newTestTranslator(t, ModeUpsert)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{"7"}})

		require.Equal(t, KindDirty, got.Kind)
		require.ErrorIs(t, got.Err, ErrArity)
		require.Equal(t, uint64(1), tr.Stats().DirtyRecords)
	})

	t.Run("retract with bad arity in insert-only mode is still skipped", func(t *testing.T) {
		tr := newTestTranslator(t, ModeInsertOnly)

		got := tr.Translate(ChangeEvent{Upsert: false, Row: []any{"7"}})

		require.Equal(t, KindSkip, got.Kind)
		require.Equal(t, Stats{}, tr.Stats())
	})

	t.Run("write without any family has no cells", func(t *testing.T) {
		tr, err := New(&Config{
			Address: "127.0.0.1:9443",
			Table:   "users",
			RowKey:  "id",
			Columns: []string{"id", "name"},
		})
		require.NoError(t, err)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{"1", "bob"}})

		require.Equal(t, KindWrite, got.Kind)
		require.Equal(t, []byte("1"), got.Write.RowKey)
		require.Empty(t, got.Write.Cells)
	})

	t.Run("composite key and typed values", func(t *testing.T) {
		tr, err := New(&Config{
			Address:  "127.0.0.1:9443",
			Table:    "orders",
			RowKey:   "tenant + '#' + id",
			Columns:  []string{"tenant", "id", "total", "paid"},
			Families: map[string]string{"total": "o:total", "paid": "o:paid"},
			Mode:     "upsert",
		})
		require.NoError(t, err)

		got := tr.Translate(ChangeEvent{Upsert: true, Row: []any{"acme", int64(9), 12.5, true}})

		require.Equal(t, KindWrite, got.Kind)
		require.Equal(t, "acme#9", string(got.Write.RowKey))
		require.Equal(t, []Cell{
			{Family: "o", Qualifier: "total", Value: []byte("12.5")},
			{Family: "o", Qualifier: "paid", Value: []byte("true")},
		}, got.Write.Cells)
	})
}

func TestTranslator_RowKeyMatchesEvaluator(t *testing.T) {
	tr := newTestTranslator(t, ModeUpsert)
	expr, err := rowkey.Parse("id")
	require.NoError(t, err)

	row := []any{"42", "carol", 51}
	want := expr.Evaluate(map[string]any{"id": "42", "name": "carol", "age": 51})

	got := tr.Translate(ChangeEvent{Upsert: true, Row: row})
	require.Equal(t, want, string(got.Write.RowKey))
	require.Equal(t, tr.RowKey(row), tr.RowKey(row))
}

func TestTranslator_Target(t *testing.T) {
	tr, err := New(&Config{
		Address:   "store:9443",
		Namespace: "/prod",
		Table:     "users",
		RowKey:    "id",
		Columns:   []string{"id", "a", "b"},
		Families:  map[string]string{"a": "f1:a", "b": "f2:b"},
		Auth:      Auth{Principal: "sink", ClientSecurity: true},
	})
	require.NoError(t, err)

	target := tr.Target()
	require.Equal(t, Target{
		Address:   "store:9443",
		Namespace: "/prod",
		Table:     "users",
		Families:  []string{"f1", "f2"},
		Auth:      Auth{Principal: "sink", ClientSecurity: true},
	}, target)

	target.Families[0] = "mutated"
	require.Equal(t, []string{"f1", "f2"}, tr.Target().Families)
	require.Equal(t, ModeInsertOnly, tr.Mode())
	require.Len(t, tr.Columns(), 3)
}

func TestCounters(t *testing.T) {
	c := &Counters{}
	require.Equal(t, uint64(1), c.IncRecords())
	require.Equal(t, uint64(2), c.IncRecords())
	require.Equal(t, uint64(1), c.IncDirty())
	require.Equal(t, Stats{RecordsSeen: 2, DirtyRecords: 1}, c.Stats())

	c.Reset()
	require.Equal(t, Stats{}, c.Stats())
}

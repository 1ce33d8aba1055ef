package rowkey

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		expr    string
		columns []string
		err     error
	}{
		"single column": {
			expr:    "id",
			columns: []string{"id"},
		},
		"concatenation with literal": {
			expr:    "tenant + '_' + id",
			columns: []string{"tenant", "id"},
		},
		"md5 over columns": {
			expr:    "md5(tenant+id)+'_'+id",
			columns: []string{"tenant", "id", "id"},
		},
		"upper case function": {
			expr:    "MD5(id)",
			columns: []string{"id"},
		},
		"empty": {
			expr: "",
			err:  ErrEmptyExpression,
		},
		"blank": {
			expr: "   ",
			err:  ErrEmptyExpression,
		},
		"dangling plus": {
			expr: "id +",
			err:  ErrEmptyTerm,
		},
		"double plus": {
			expr: "a ++ b",
			err:  ErrEmptyTerm,
		},
		"missing operator": {
			expr: "a b",
			err:  ErrEmptyTerm,
		},
		"unterminated literal": {
			expr: "id + '_",
			err:  ErrUnterminatedLiteral,
		},
		"unclosed function": {
			expr: "md5(id",
			err:  ErrUnbalanced,
		},
		"stray paren": {
			expr: "id)",
			err:  ErrUnbalanced,
		},
		"unknown function": {
			expr: "sha1(id)",
			err:  ErrUnknownFunction,
		},
		"empty function": {
			expr: "md5()",
			err:  ErrEmptyTerm,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			got, err := Parse(tc.expr)
			if tc.err != nil {
				req.Error(err)
				req.True(errors.Is(err, tc.err), "got %v", err)
				req.Nil(got)
				return
			}

			req.NoError(err)
			req.Equal(tc.expr, got.String())
			req.Equal(tc.columns, got.Columns())
		})
	}
}

func TestExpression_Evaluate(t *testing.T) {
	sum := md5.Sum([]byte("acme7"))
	hashed := hex.EncodeToString(sum[:])

	tests := map[string]struct {
		expr string
		row  map[string]any
		want string
	}{
		"single column": {
			expr: "id",
			row:  map[string]any{"id": "7", "name": "alice"},
			want: "7",
		},
		"integer value": {
			expr: "id",
			row:  map[string]any{"id": int64(42)},
			want: "42",
		},
		"concatenation": {
			expr: "tenant + '_' + id",
			row:  map[string]any{"tenant": "acme", "id": 7},
			want: "acme_7",
		},
		"md5": {
			expr: "md5(tenant + id) + ':' + id",
			row:  map[string]any{"tenant": "acme", "id": "7"},
			want: hashed + ":7",
		},
		"null column": {
			expr: "id",
			row:  map[string]any{"id": nil},
			want: "",
		},
		"one of many null": {
			expr: "tenant + id",
			row:  map[string]any{"tenant": "acme", "id": nil},
			want: "",
		},
		"null inside md5": {
			expr: "md5(id)",
			row:  map[string]any{"id": nil},
			want: "",
		},
		"missing column": {
			expr: "id",
			row:  map[string]any{"name": "alice"},
			want: "",
		},
		"blank value": {
			expr: "id",
			row:  map[string]any{"id": "   "},
			want: "",
		},
		"blank concatenation": {
			expr: "a + ' ' + b",
			row:  map[string]any{"a": "", "b": ""},
			want: "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(tc.expr)
			require.NoError(t, err)
			require.Equal(t, tc.want, e.Evaluate(tc.row))
		})
	}
}

func TestExpression_EvaluateIsPure(t *testing.T) {
	e, err := Parse("md5(id) + '-' + name")
	require.NoError(t, err)

	row := map[string]any{"id": 1, "name": "bob"}
	first := e.Evaluate(row)
	second := e.Evaluate(row)

	require.NotEmpty(t, first)
	require.Equal(t, first, second)
	require.Equal(t, map[string]any{"id": 1, "name": "bob"}, row)
}

func TestExpression_ColumnsIsCopy(t *testing.T) {
	e, err := Parse("a + b")
	require.NoError(t, err)

	cols := e.Columns()
	cols[0] = "z"
	require.Equal(t, []string{"a", "b"}, e.Columns())
}

func TestStringValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		in   any
		want string
	}{
		"nil":    {in: nil, want: ""},
		"string": {in: "abc", want: "abc"},
		"bytes":  {in: []byte("raw"), want: "raw"},
		"int":    {in: 30, want: "30"},
		"int64":  {in: int64(-5), want: "-5"},
		"float":  {in: 1.5, want: "1.5"},
		"bool":   {in: true, want: "true"},
		"time":   {in: ts, want: "2024-05-01T12:30:00Z"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, StringValue(tc.in))
		})
	}
}

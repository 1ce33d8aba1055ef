package source

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestConvertValue(t *testing.T) {
	tests := map[string]struct {
		typ   string
		in    any
		want  any
		isErr bool
	}{
		"nil stays nil":       {typ: TypeInt, in: nil, want: nil},
		"int from text":       {typ: TypeInt, in: "42", want: int32(42)},
		"int from json":       {typ: TypeInt, in: json.Number("42"), want: int32(42)},
		"bigint":              {typ: TypeBigInt, in: "9007199254740993", want: int64(9007199254740993)},
		"double":              {typ: TypeDouble, in: "1.5", want: 1.5},
		"float":               {typ: TypeFloat, in: json.Number("0.25"), want: float32(0.25)},
		"decimal keeps text":  {typ: TypeDecimal, in: "10.10", want: "10.10"},
		"decimal not numeric": {typ: TypeDecimal, in: "ten", isErr: true},
		"bool":                {typ: TypeBool, in: "true", want: true},
		"timestamp":           {typ: TypeTimestamp, in: "2024-03-01T10:00:00Z", want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		"date drops time":     {typ: TypeDate, in: "2024-03-01T10:00:00Z", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		"string":              {typ: TypeString, in: 12, want: "12"},
		"bytes":               {typ: TypeBytes, in: "abc", want: []byte("abc")},
		"bad int":             {typ: TypeInt, in: "abc", isErr: true},
		"unknown type":        {typ: "uuid", in: "x", isErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ConvertValue(test.typ, test.in)
			if test.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestNormalizeType(t *testing.T) {
	got, err := NormalizeType(" VarChar ")
	require.NoError(t, err)
	require.Equal(t, TypeString, got)

	got, err = NormalizeType("Boolean")
	require.NoError(t, err)
	require.Equal(t, TypeBool, got)

	_, err = NormalizeType("geometry")
	require.EqualError(t, err, `unknown column type "geometry"`)
}

func TestNewConverter(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewConverter([]string{"id", "name"}, []string{"int"})
		require.EqualError(t, err, "1 column types for 2 columns")
	})

	t.Run("unknown type names the column", func(t *testing.T) {
		_, err := NewConverter([]string{"id"}, []string{"serial"})
		require.EqualError(t, err, `column id: unknown column type "serial"`)
	})

	t.Run("untyped rows pass through", func(t *testing.T) {
		c, err := NewConverter([]string{"id"}, nil)
		require.NoError(t, err)
		row := []any{"7"}
		require.NoError(t, c.Row(row))
		require.Equal(t, []any{"7"}, row)
	})

	t.Run("failures keep the original value", func(t *testing.T) {
		c, err := NewConverter([]string{"id", "age"}, []string{"bigint", "int"})
		require.NoError(t, err)
		row := []any{"7", "old"}
		err = c.Row(row)
		require.Error(t, err)
		require.Contains(t, err.Error(), "column age as int")
		require.Equal(t, []any{int64(7), "old"}, row)
	})
}

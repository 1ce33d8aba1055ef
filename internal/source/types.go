package source

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cast"
	"strings"
	"time"
)

// Column type names accepted in configuration.
const (
	TypeInt       = "int"
	TypeBigInt    = "bigint"
	TypeFloat     = "float"
	TypeDouble    = "double"
	TypeDecimal   = "decimal"
	TypeBool      = "bool"
	TypeTimestamp = "timestamp"
	TypeDate      = "date"
	TypeString    = "string"
	TypeBytes     = "bytes"
)

var typeAliases = map[string]string{
	"int":       TypeInt,
	"integer":   TypeInt,
	"smallint":  TypeInt,
	"bigint":    TypeBigInt,
	"long":      TypeBigInt,
	"float":     TypeFloat,
	"real":      TypeFloat,
	"double":    TypeDouble,
	"decimal":   TypeDecimal,
	"numeric":   TypeDecimal,
	"bool":      TypeBool,
	"boolean":   TypeBool,
	"timestamp": TypeTimestamp,
	"date":      TypeDate,
	"string":    TypeString,
	"varchar":   TypeString,
	"text":      TypeString,
	"bytes":     TypeBytes,
	"binary":    TypeBytes,
}

// NormalizeType maps a configured type name to its canonical form.
func NormalizeType(name string) (string, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown column type %q", name)
	}
	return t, nil
}

// ConvertValue converts v to the Go value for the canonical type typ. nil stays nil.
func ConvertValue(typ string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if n, ok := v.(json.Number); ok {
		v = n.String()
	}

	switch typ {
	case TypeInt:
		return cast.ToInt32E(v)
	case TypeBigInt:
		return cast.ToInt64E(v)
	case TypeFloat:
		return cast.ToFloat32E(v)
	case TypeDouble:
		return cast.ToFloat64E(v)
	case TypeDecimal:
		// keep the textual digits, only check they parse
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		if _, err = cast.ToFloat64E(s); err != nil {
			return nil, err
		}
		return s, nil
	case TypeBool:
		return cast.ToBoolE(v)
	case TypeTimestamp:
		return cast.ToTimeE(v)
	case TypeDate:
		t, err := cast.ToTimeE(v)
		if err != nil {
			return nil, err
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	case TypeString:
		return cast.ToStringE(v)
	case TypeBytes:
		if b, ok := v.([]byte); ok {
			return b, nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown column type %q", typ)
}

// Converter applies configured column types to rows.
type Converter struct {
	columns []string
	types   []string
}

// NewConverter checks types against columns. Without types, rows pass through unchanged.
func NewConverter(columns, types []string) (*Converter, error) {
	c := &Converter{columns: columns}
	if len(types) == 0 {
		return c, nil
	}
	if len(types) != len(columns) {
		return nil, fmt.Errorf("%d column types for %d columns", len(types), len(columns))
	}

	c.types = make([]string, len(types))
	for i, name := range types {
		t, err := NormalizeType(name)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", columns[i], err)
		}
		c.types[i] = t
	}
	return c, nil
}

// Typed reports whether the column at i has a configured type.
func (c *Converter) Typed(i int) bool {
	return i < len(c.types)
}

// Value converts one value of the column at i.
func (c *Converter) Value(i int, v any) (any, error) {
	if !c.Typed(i) {
		return v, nil
	}
	out, err := ConvertValue(c.types[i], v)
	if err != nil {
		return v, fmt.Errorf("column %s as %s: %w", c.columns[i], c.types[i], err)
	}
	return out, nil
}

// Row converts row in place. Values that fail to convert are kept as they came and reported
// together.
func (c *Converter) Row(row []any) error {
	var errs []error
	for i := range row {
		v, err := c.Value(i, row[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		row[i] = v
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d conversion errors, first: %w", len(errs), errs[0])
}

package rowkey

import (
	"fmt"
	"github.com/spf13/cast"
	"time"
)

// StringValue renders a column value the way it is stored: strings and byte slices as-is,
// times as RFC3339Nano and everything else through cast.
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

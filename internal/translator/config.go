package translator

import (
	"errors"
	"fmt"
	"github.com/litetable/litetable-sink/internal/family"
	"github.com/litetable/litetable-sink/internal/rowkey"
	"github.com/rs/zerolog/log"
	"strings"
)

// Mode decides what happens to retract events.
type Mode string

const (
	// ModeInsertOnly ignores retract events.
	ModeInsertOnly Mode = "insert-only"
	// ModeUpsert turns retract events into deletes.
	ModeUpsert Mode = "upsert"
)

// ParseMode accepts a mode name case-insensitively. An empty name and "append" mean
// insert-only.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append", string(ModeInsertOnly):
		return ModeInsertOnly, nil
	case string(ModeUpsert):
		return ModeUpsert, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Auth is handed to the store client untouched.
type Auth struct {
	CredentialFile string
	Principal      string
	RealmConfig    string
	ClientSecurity bool
}

// ConfigError reports a missing or invalid configuration field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	errRequired  = errors.New("required")
	errNotColumn = errors.New("not a configured column")
)

type Config struct {
	// Address of the store.
	Address string
	// Namespace optionally qualifies the table on the store.
	Namespace string
	Table     string
	// RowKey is the row key expression, see rowkey.Parse.
	RowKey string
	// Columns and Types are positional; Types is optional.
	Columns []string
	Types   []string
	// Families maps a column name to "family:qualifier".
	Families map[string]string
	Mode     string
	Auth     Auth
}

// validate collects every configuration problem. The parsed expression, columns and mode are
// returned so New does not parse twice.
func (c *Config) validate() (*rowkey.Expression, []family.Column, Mode, error) {
	var errGrp []error
	if strings.TrimSpace(c.Address) == "" {
		errGrp = append(errGrp, &ConfigError{Field: "address", Err: errRequired})
	}
	if strings.TrimSpace(c.Table) == "" {
		errGrp = append(errGrp, &ConfigError{Field: "table", Err: errRequired})
	}
	if len(c.Columns) == 0 {
		errGrp = append(errGrp, &ConfigError{Field: "columns", Err: errRequired})
	}
	if len(c.Types) != 0 && len(c.Types) != len(c.Columns) {
		errGrp = append(errGrp, &ConfigError{
			Field: "types",
			Err:   fmt.Errorf("got %d types for %d columns", len(c.Types), len(c.Columns)),
		})
	}

	mode, err := ParseMode(c.Mode)
	if err != nil {
		errGrp = append(errGrp, &ConfigError{Field: "mode", Err: err})
	}

	expr, err := rowkey.Parse(c.RowKey)
	if err != nil {
		errGrp = append(errGrp, &ConfigError{Field: "row key", Err: err})
	} else {
		known := make(map[string]struct{}, len(c.Columns))
		for _, name := range c.Columns {
			known[name] = struct{}{}
		}
		for _, name := range expr.Columns() {
			if _, ok := known[name]; !ok {
				errGrp = append(errGrp, &ConfigError{
					Field: "row key",
					Err:   fmt.Errorf("%q: %w", name, errNotColumn),
				})
			}
		}
	}

	columns, err := family.Map(c.Columns, c.Types, c.Families)
	if err != nil {
		errGrp = append(errGrp, &ConfigError{Field: "column families", Err: err})
	}

	if err := errors.Join(errGrp...); err != nil {
		return nil, nil, "", err
	}
	return expr, columns, mode, nil
}

// New validates cfg and returns an immutable Translator.
func New(cfg *Config) (*Translator, error) {
	expr, columns, mode, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	families := family.Families(columns)
	if len(families) == 0 {
		log.Warn().
			Str("table", cfg.Table).
			Msg("no column families configured: writes will carry no cells")
	}

	return &Translator{
		rowKey:  expr,
		columns: columns,
		mode:    mode,
		target: Target{
			Address:   cfg.Address,
			Namespace: cfg.Namespace,
			Table:     cfg.Table,
			Families:  families,
			Auth:      cfg.Auth,
		},
		counters: &Counters{},
	}, nil
}

package translator

import (
	"errors"
	"fmt"
	"github.com/litetable/litetable-sink/internal/family"
	"github.com/litetable/litetable-sink/internal/rowkey"
)

var (
	// ErrBlankRowKey marks an event whose row key evaluated to an empty string.
	ErrBlankRowKey = errors.New("row key value must not be null or blank")
	// ErrArity marks an event whose row does not match the configured columns.
	ErrArity = errors.New("row arity does not match configured columns")
)

// Target is everything the store client needs from the configuration, passed through as-is.
type Target struct {
	Address   string
	Namespace string
	Table     string
	// Families are the distinct families of the stored columns.
	Families []string
	Auth     Auth
}

// Translator turns change events into point writes and deletes. Its configuration never
// changes after New; only the counters move.
type Translator struct {
	rowKey   *rowkey.Expression
	columns  []family.Column
	mode     Mode
	target   Target
	counters *Counters
}

func (t *Translator) Mode() Mode {
	return t.mode
}

// Columns returns a copy of the column descriptors.
func (t *Translator) Columns() []family.Column {
	out := make([]family.Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Translator) Target() Target {
	target := t.target
	target.Families = append([]string(nil), t.target.Families...)
	return target
}

// Counters exposes the record counters for the sink and for metric exporters.
func (t *Translator) Counters() *Counters {
	return t.counters
}

func (t *Translator) Stats() Stats {
	return t.counters.Stats()
}

// Translate decides what event becomes. Retract events are skipped unless the translator runs
// in upsert mode. An event without a usable row key is dirty and counted here.
func (t *Translator) Translate(event ChangeEvent) Outcome {
	if !event.Upsert && t.mode != ModeUpsert {
		return Outcome{Kind: KindSkip}
	}

	if len(event.Row) != len(t.columns) {
		t.counters.IncDirty()
		return Outcome{
			Kind: KindDirty,
			Err:  fmt.Errorf("%w: got %d values for %d columns", ErrArity, len(event.Row), len(t.columns)),
		}
	}

	key := t.RowKey(event.Row)
	if key == "" {
		t.counters.IncDirty()
		return Outcome{Kind: KindDirty, Err: ErrBlankRowKey}
	}

	if !event.Upsert {
		return Outcome{
			Kind:   KindDelete,
			Delete: &DeleteRequest{RowKey: []byte(key)},
		}
	}

	return Outcome{
		Kind: KindWrite,
		Write: &WriteRequest{
			RowKey: []byte(key),
			Cells:  t.cells(event.Row),
		},
	}
}

// RowKey evaluates the row key expression against row. It returns an empty string when no key
// can be built.
func (t *Translator) RowKey(row []any) string {
	values := make(map[string]any, len(t.columns))
	for i, c := range t.columns {
		if i < len(row) {
			values[c.Name] = row[i]
		}
	}
	return t.rowKey.Evaluate(values)
}

// cells skips null values and columns without a coordinate.
func (t *Translator) cells(row []any) []Cell {
	var cells []Cell
	for i, c := range t.columns {
		if row[i] == nil || !c.Stored() {
			continue
		}
		cells = append(cells, Cell{
			Family:    c.Family,
			Qualifier: c.Qualifier,
			Value:     []byte(rowkey.StringValue(row[i])),
		})
	}
	return cells
}

package source

import (
	"bytes"
	"fmt"
	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
	"strings"
)

// Tuple column kinds sent by pgoutput.
const (
	tupleNull      = 'n'
	tupleUnchanged = 'u'
	tupleText      = 't'
	tupleBinary    = 'b'
)

// decodedOIDs are the server types turned into Go values when no column type is configured.
// Anything else keeps its text form.
var decodedOIDs = map[uint32]bool{
	pgtype.BoolOID:        true,
	pgtype.Int2OID:        true,
	pgtype.Int4OID:        true,
	pgtype.Int8OID:        true,
	pgtype.Float4OID:      true,
	pgtype.Float8OID:      true,
	pgtype.TimestampOID:   true,
	pgtype.TimestamptzOID: true,
	pgtype.DateOID:        true,
	pgtype.ByteaOID:       true,
}

// decoder turns pgoutput messages for one table into change events.
type decoder struct {
	schema    string
	table     string
	columns   []string
	index     map[string]int
	converter *Converter
	relations map[uint32]*pglogrepl.RelationMessage
	typeMap   *pgtype.Map
}

func newDecoder(table string, columns []string, conv *Converter) *decoder {
	var schema string
	if i := strings.LastIndex(table, "."); i >= 0 {
		schema, table = table[:i], table[i+1:]
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}

	return &decoder{
		schema:    schema,
		table:     table,
		columns:   columns,
		index:     index,
		converter: conv,
		relations: make(map[uint32]*pglogrepl.RelationMessage),
		typeMap:   pgtype.NewMap(),
	}
}

func (d *decoder) decode(msg pglogrepl.Message) ([]translator.ChangeEvent, error) {
	switch msg := msg.(type) {
	case *pglogrepl.RelationMessage:
		d.relations[msg.RelationID] = msg

	case *pglogrepl.InsertMessage:
		rel, err := d.relation(msg.RelationID)
		if rel == nil || err != nil {
			return nil, err
		}
		return []translator.ChangeEvent{{Upsert: true, Row: d.row(rel, msg.Tuple)}}, nil

	case *pglogrepl.UpdateMessage:
		rel, err := d.relation(msg.RelationID)
		if rel == nil || err != nil {
			return nil, err
		}
		var events []translator.ChangeEvent
		if msg.OldTuple != nil && keyChanged(rel, msg.OldTupleType, msg.OldTuple, msg.NewTuple) {
			events = append(events, translator.ChangeEvent{Row: d.row(rel, msg.OldTuple)})
		}
		return append(events, translator.ChangeEvent{Upsert: true, Row: d.row(rel, msg.NewTuple)}), nil

	case *pglogrepl.DeleteMessage:
		rel, err := d.relation(msg.RelationID)
		if rel == nil || err != nil {
			return nil, err
		}
		if msg.OldTuple == nil {
			log.Warn().Str("table", rel.RelationName).Msg("delete without replica identity ignored")
			return nil, nil
		}
		return []translator.ChangeEvent{{Row: d.row(rel, msg.OldTuple)}}, nil

	case *pglogrepl.TruncateMessage:
		log.Warn().Msg("truncate is not replicated to the store")
	}
	return nil, nil
}

// relation returns nil for relations of other tables.
func (d *decoder) relation(id uint32) (*pglogrepl.RelationMessage, error) {
	rel, ok := d.relations[id]
	if !ok {
		return nil, fmt.Errorf("unknown relation ID: %d", id)
	}
	if rel.RelationName != d.table || (d.schema != "" && rel.Namespace != d.schema) {
		return nil, nil
	}
	return rel, nil
}

// keyChanged reports whether an update moved the row to another replica identity.
func keyChanged(rel *pglogrepl.RelationMessage, oldType uint8, oldTuple, newTuple *pglogrepl.TupleData) bool {
	if oldType == pglogrepl.UpdateMessageTupleTypeKey {
		return true
	}
	if newTuple == nil {
		return false
	}
	for i, col := range rel.Columns {
		if col.Flags&1 == 0 || i >= len(oldTuple.Columns) || i >= len(newTuple.Columns) {
			continue
		}
		if !bytes.Equal(oldTuple.Columns[i].Data, newTuple.Columns[i].Data) {
			return true
		}
	}
	return false
}

// row lays tuple out in configured column order.
func (d *decoder) row(rel *pglogrepl.RelationMessage, tuple *pglogrepl.TupleData) []any {
	row := make([]any, len(d.columns))
	if tuple == nil {
		return row
	}
	for i, col := range tuple.Columns {
		if i >= len(rel.Columns) {
			break
		}
		ci, ok := d.index[rel.Columns[i].Name]
		if !ok {
			continue
		}
		row[ci] = d.value(ci, rel.Columns[i].DataType, col)
	}
	return row
}

func (d *decoder) value(ci int, oid uint32, col *pglogrepl.TupleDataColumn) any {
	switch col.DataType {
	case tupleNull, tupleUnchanged:
		return nil
	case tupleBinary:
		return append([]byte(nil), col.Data...)
	case tupleText:
	default:
		return nil
	}

	text := string(col.Data)
	if d.converter.Typed(ci) {
		v, err := d.converter.Value(ci, text)
		if err != nil {
			log.Debug().Err(err).Msg("value kept as text")
		}
		return v
	}

	if !decodedOIDs[oid] {
		return text
	}
	dt, ok := d.typeMap.TypeForOID(oid)
	if !ok {
		return text
	}
	v, err := dt.Codec.DecodeValue(d.typeMap, oid, pgtype.TextFormatCode, col.Data)
	if err != nil {
		log.Debug().Err(err).Uint32("oid", oid).Msg("value kept as text")
		return text
	}
	return v
}

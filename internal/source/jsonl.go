package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
	"io"
	"os"
)

// Stdin is the JSONLines path that reads standard input.
const Stdin = "-"

const maxLineSize = 16 << 20

// jsonLine is one change event:
//
//	{"upsert": true, "row": {"id": 7, "name": "alice"}}
//	{"upsert": false, "row": [7, "alice", 30]}
//
// An object row is laid out in configured column order, absent columns become null. An array row
// is passed through as is.
type jsonLine struct {
	Upsert bool            `json:"upsert"`
	Row    json.RawMessage `json:"row"`
}

// JSONLines replays change events from a file of JSON objects, one per line.
type JSONLines struct {
	path      string
	columns   []string
	index     map[string]int
	converter *Converter
	reader    io.Reader
}

type JSONLinesConfig struct {
	// Path of the file, or Stdin.
	Path    string
	Columns []string
	Types   []string
	// Reader replaces Path when set.
	Reader io.Reader
}

func (c *JSONLinesConfig) validate() error {
	var errGrp []error
	if c.Path == "" && c.Reader == nil {
		errGrp = append(errGrp, errors.New("path required"))
	}
	if len(c.Columns) == 0 {
		errGrp = append(errGrp, errors.New("columns required"))
	}
	return errors.Join(errGrp...)
}

func NewJSONLines(cfg *JSONLinesConfig) (*JSONLines, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	conv, err := NewConverter(cfg.Columns, cfg.Types)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(cfg.Columns))
	for i, name := range cfg.Columns {
		index[name] = i
	}

	return &JSONLines{
		path:      cfg.Path,
		columns:   cfg.Columns,
		index:     index,
		converter: conv,
		reader:    cfg.Reader,
	}, nil
}

func (j *JSONLines) Name() string {
	return "jsonl " + j.path
}

// Run sends every well-formed line to handle. Malformed lines are logged and skipped.
func (j *JSONLines) Run(ctx context.Context, handle Handler) error {
	r := j.reader
	switch {
	case r != nil:
	case j.path == Stdin:
		r = os.Stdin
	default:
		f, err := os.Open(j.path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", j.path, err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lineNo, events int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		event, err := j.decode(line)
		if err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("skipping malformed change event")
			continue
		}
		if err = handle(ctx, event); err != nil {
			return err
		}
		events++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", j.path, err)
	}

	log.Info().Str("path", j.path).Int("lines", lineNo).Int("events", events).Msg("replay finished")
	return nil
}

func (j *JSONLines) decode(line []byte) (translator.ChangeEvent, error) {
	var event translator.ChangeEvent

	var l jsonLine
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&l); err != nil {
		return event, fmt.Errorf("invalid json: %w", err)
	}

	row, err := j.row(l.Row)
	if err != nil {
		return event, err
	}
	if err = j.converter.Row(row); err != nil {
		log.Debug().Err(err).Msg("row values kept unconverted")
	}

	event.Upsert = l.Upsert
	event.Row = row
	return event, nil
}

func (j *JSONLines) row(raw json.RawMessage) ([]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("row missing")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	switch raw[0] {
	case '[':
		var row []any
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("invalid row: %w", err)
		}
		return row, nil
	case '{':
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("invalid row: %w", err)
		}
		row := make([]any, len(j.columns))
		for name, v := range fields {
			i, ok := j.index[name]
			if !ok {
				log.Debug().Str("column", name).Msg("ignoring unconfigured column")
				continue
			}
			row[i] = v
		}
		return row, nil
	}
	return nil, errors.New("row must be an object or an array")
}

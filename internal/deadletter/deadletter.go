package deadletter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultJournalFile = "dirty.log"
)

// Entry is one dropped record.
type Entry struct {
	Instance  string    `json:"instance"`
	Reason    string    `json:"reason"`
	Upsert    bool      `json:"upsert"`
	RowKey    string    `json:"rowKey,omitempty"`
	Row       []any     `json:"row"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Journal appends dropped records to a JSON-lines file so they can be inspected and replayed
// by hand. Nothing reads it back.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool
}

type Config struct {
	// Dir is where the journal file is created.
	Dir string
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Dir == "" {
		errGrp = append(errGrp, errors.New("journal directory cannot be empty"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Journal, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(cfg.Dir, defaultJournalFile)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Journal{
		file: file,
		path: path,
	}, nil
}

// Record appends e as a single line:
//
//	{"instance":"...","reason":"write","upsert":true,"rowKey":"7","row":["7","alice",null],...}
func (j *Journal) Record(e *Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return errors.New("journal is closed")
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	if _, err = j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to journal: %w", err)
	}
	return nil
}

func (j *Journal) Path() string {
	return j.path
}

// Close is safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}

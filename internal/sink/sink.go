package sink

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/joeycumines/go-catrate"
	"github.com/litetable/litetable-sink/internal/deadletter"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"sync"
	"time"
)

//go:generate mockgen -destination=sink_mock.go -package=sink -source=sink.go

const (
	// RowLogFrequency samples processed records into the info log.
	RowLogFrequency = 1000

	categoryRowKey = "rowkey"
	categoryArity  = "arity"
	categoryWrite  = "write"
	categoryDelete = "delete"
)

// DefaultErrorLogRates bounds dirty record error logs per category.
var DefaultErrorLogRates = map[time.Duration]int{
	time.Second: 5,
	time.Minute: 60,
}

var (
	errNotOpen = errors.New("sink is not open")
	errClosed  = errors.New("sink is closed")
)

// storeClient performs the store I/O for translated records.
type storeClient interface {
	Open(ctx context.Context) error
	SubmitWrite(ctx context.Context, req *translator.WriteRequest) error
	SubmitDelete(ctx context.Context, req *translator.DeleteRequest) error
	Close() error
}

// journal keeps dropped records.
type journal interface {
	Record(e *deadletter.Entry) error
	Close() error
}

// Sink drives one translator against one store connection. Write must be called from a single
// goroutine; Stats may be read from anywhere.
type Sink struct {
	id         string
	translator *translator.Translator
	store      storeClient
	journal    journal
	limiter    *catrate.Limiter

	mu     sync.Mutex
	isOpen bool
	closed bool
}

type Config struct {
	Translator *translator.Translator
	Store      storeClient
	// Journal is optional.
	Journal journal
	// InstanceID tags logs and journal entries. A random id is used when empty.
	InstanceID string
	// ErrorLogRates overrides DefaultErrorLogRates.
	ErrorLogRates map[time.Duration]int
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Translator == nil {
		errGrp = append(errGrp, errors.New("translator required"))
	}
	if c.Store == nil {
		errGrp = append(errGrp, errors.New("store required"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Sink, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	id := cfg.InstanceID
	if id == "" {
		id = uuid.NewString()
	}
	rates := cfg.ErrorLogRates
	if rates == nil {
		rates = DefaultErrorLogRates
	}

	return &Sink{
		id:         id,
		translator: cfg.Translator,
		store:      cfg.Store,
		journal:    cfg.Journal,
		limiter:    catrate.NewLimiter(rates),
	}, nil
}

func (s *Sink) ID() string {
	return s.id
}

// Stats returns the translator counters.
func (s *Sink) Stats() translator.Stats {
	return s.translator.Stats()
}

// Open connects the store and starts counting from zero.
func (s *Sink) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed
	}
	if s.isOpen {
		return nil
	}
	if err := s.store.Open(ctx); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	s.translator.Counters().Reset()
	s.isOpen = true

	log.Info().
		Str("instance", s.id).
		Str("mode", string(s.translator.Mode())).
		Msg("sink opened")
	return nil
}

// Close releases the store connection and the journal. Calling it again does nothing.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	wasOpen := s.isOpen
	s.isOpen = false

	var errs []error
	if wasOpen {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close journal: %w", err))
		}
	}

	stats := s.translator.Stats()
	log.Info().
		Str("instance", s.id).
		Uint64("records", stats.RecordsSeen).
		Uint64("dirty", stats.DirtyRecords).
		Msg("sink closed")
	return errors.Join(errs...)
}

func (s *Sink) opened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Write translates event and hands it to the store. Per-record failures are counted and
// logged, never returned; the only error is writing to a sink that is not open.
func (s *Sink) Write(ctx context.Context, event translator.ChangeEvent) error {
	if !s.opened() {
		return errNotOpen
	}

	out := s.translator.Translate(event)
	switch out.Kind {
	case translator.KindSkip:
		return nil
	case translator.KindDirty:
		s.dropped(dirtyCategory(out.Err), event, "", out.Err)
		return nil
	case translator.KindWrite:
		err := s.store.SubmitWrite(ctx, out.Write)
		s.account(categoryWrite, event, out.Write.RowKey, err)
	case translator.KindDelete:
		err := s.store.SubmitDelete(ctx, out.Delete)
		s.account(categoryDelete, event, out.Delete.RowKey, err)
	}
	return nil
}

// dirtyCategory names the reason a record failed translation.
func dirtyCategory(err error) string {
	if errors.Is(err, translator.ErrArity) {
		return categoryArity
	}
	return categoryRowKey
}

// account counts a record that reached the store, successfully or not.
func (s *Sink) account(category string, event translator.ChangeEvent, rowKey []byte, err error) {
	if err != nil {
		s.translator.Counters().IncDirty()
		s.dropped(category, event, string(rowKey), err)
	}

	n := s.translator.Counters().IncRecords()
	if (n-1)%RowLogFrequency == 0 {
		log.Info().
			Str("instance", s.id).
			Uint64("records", n).
			Str("op", category).
			Str("rowKey", string(rowKey)).
			Interface("row", event.Row).
			Msg("record processed")
	}
}

// dropped logs and journals a dirty record. The counter has already moved.
func (s *Sink) dropped(category string, event translator.ChangeEvent, rowKey string, err error) {
	if s.shouldLog(category) {
		log.Error().
			Err(err).
			Str("instance", s.id).
			Str("op", category).
			Str("rowKey", rowKey).
			Interface("row", event.Row).
			Uint64("dirty", s.translator.Stats().DirtyRecords).
			Msg("record dropped")
	}

	if s.journal == nil {
		return
	}
	entry := &deadletter.Entry{
		Instance:  s.id,
		Reason:    category,
		Upsert:    event.Upsert,
		RowKey:    rowKey,
		Row:       event.Row,
		Timestamp: time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if jErr := s.journal.Record(entry); jErr != nil {
		log.Warn().Err(jErr).Str("instance", s.id).Msg("failed to journal dropped record")
	}
}

func (s *Sink) shouldLog(category string) bool {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		return true
	}
	_, ok := s.limiter.Allow(category)
	return ok
}

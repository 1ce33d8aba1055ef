package pipeline

import (
	"context"
	"errors"
	"fmt"
	"github.com/litetable/litetable-sink/internal/source"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
	"sync"
)

//go:generate mockgen -destination=pipeline_mock.go -package=pipeline -source=pipeline.go

const pipelineName = "Sink Pipeline"

// changeSource produces change events until it is exhausted or ctx is done.
type changeSource interface {
	Name() string
	Run(ctx context.Context, handle source.Handler) error
}

type sink interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, event translator.ChangeEvent) error
	Close() error
	Stats() translator.Stats
}

// Pipeline feeds one source into one sink from a single goroutine.
type Pipeline struct {
	source changeSource
	sink   sink

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

type Config struct {
	Source changeSource
	Sink   sink
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Source == nil {
		errGrp = append(errGrp, errors.New("source is required"))
	}
	if c.Sink == nil {
		errGrp = append(errGrp, errors.New("sink is required"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		source: cfg.Source,
		sink:   cfg.Sink,
		done:   make(chan struct{}),
	}, nil
}

// Start opens the sink and runs the source until it ends or Stop is called.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	if p.stopped || p.cancel != nil {
		p.mu.Unlock()
		return errors.New("pipeline already started or stopped")
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	defer close(p.done)
	return p.Run(ctx)
}

// Run is Start bound to ctx. Cancellation is a clean exit.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.sink.Open(ctx); err != nil {
		return err
	}

	log.Info().Str("source", p.source.Name()).Msg("pipeline running")
	err := p.source.Run(ctx, p.sink.Write)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("source %s: %w", p.source.Name(), err)
	}

	stats := p.sink.Stats()
	log.Info().
		Str("source", p.source.Name()).
		Uint64("records", stats.RecordsSeen).
		Uint64("dirty", stats.DirtyRecords).
		Msg("pipeline finished")
	return nil
}

// Stop cancels the source, waits for the running event to finish and closes the sink.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-p.done
	}
	return p.sink.Close()
}

func (p *Pipeline) Name() string {
	return pipelineName
}

// Finite reports that Start returns once the source is exhausted.
func (p *Pipeline) Finite() bool {
	return true
}

package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/litetable/litetable-sink/internal/app"
	"github.com/litetable/litetable-sink/internal/checkpoint"
	"github.com/litetable/litetable-sink/internal/config"
	"github.com/litetable/litetable-sink/internal/deadletter"
	"github.com/litetable/litetable-sink/internal/metrics"
	"github.com/litetable/litetable-sink/internal/pipeline"
	"github.com/litetable/litetable-sink/internal/sink"
	"github.com/litetable/litetable-sink/internal/source"
	"github.com/litetable/litetable-sink/internal/store"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/prometheus/client_golang/prometheus"
)

const serviceName = "LiteTable Sink"

// changeSource is what the pipeline reads from.
type changeSource interface {
	Name() string
	Run(ctx context.Context, handle source.Handler) error
}

func initialize(cfg *config.Config) (*app.App, error) {
	var deps []app.Dependency

	// The translator validates the sink settings and decides write, delete or dirty per event.
	tr, err := translator.New(&translator.Config{
		Address:   cfg.Store.Address,
		Namespace: cfg.Store.Namespace,
		Table:     cfg.Store.Table,
		RowKey:    cfg.Sink.RowKey,
		Columns:   cfg.Sink.Columns,
		Types:     cfg.Sink.Types,
		Families:  cfg.Families(),
		Mode:      cfg.Sink.Mode,
		Auth:      authFrom(cfg),
	})
	if err != nil {
		return nil, err
	}

	storeClient, err := store.New(&store.Config{
		Target:         tr.Target(),
		CreateFamilies: cfg.Store.CreateFamilies,
		DeleteTTL:      cfg.DeleteTTL(),
	})
	if err != nil {
		return nil, err
	}

	sinkCfg := &sink.Config{
		Translator: tr,
		Store:      storeClient,
	}
	if cfg.Sink.DirtyLog != "" {
		journal, err := deadletter.New(&deadletter.Config{Dir: cfg.Sink.DirtyLog})
		if err != nil {
			return nil, err
		}
		sinkCfg.Journal = journal
	}
	sinkHandler, err := sink.New(sinkCfg)
	if err != nil {
		return nil, err
	}

	src, err := newSource(cfg, &deps)
	if err != nil {
		return nil, err
	}

	// metrics come up before the pipeline and go down after it
	if cfg.Metrics.Address != "" {
		if err = metrics.Register(prometheus.DefaultRegisterer, sinkHandler); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metricsServer, err := metrics.New(&metrics.Config{Address: cfg.Metrics.Address})
		if err != nil {
			return nil, err
		}
		deps = append(deps, metricsServer)
	}

	pipe, err := pipeline.New(&pipeline.Config{
		Source: src,
		Sink:   sinkHandler,
	})
	if err != nil {
		return nil, err
	}
	deps = append(deps, pipe)

	return app.CreateApp(&app.Config{
		ServiceName: serviceName,
		StopTimeout: cfg.App.StopTimeout,
	}, deps...)
}

// newSource builds the configured source. Resources it owns are appended to deps.
func newSource(cfg *config.Config, deps *[]app.Dependency) (changeSource, error) {
	switch cfg.Source.Type {
	case config.SourceJSONL:
		return source.NewJSONLines(&source.JSONLinesConfig{
			Path:    cfg.Source.JSONL.Path,
			Columns: cfg.Sink.Columns,
			Types:   cfg.Sink.Types,
		})

	case config.SourcePostgres:
		pg := cfg.Source.Postgres
		pgCfg := &source.PostgresConfig{
			Host:        pg.Host,
			Port:        pg.Port,
			Database:    pg.Database,
			User:        pg.User,
			Password:    pg.Password,
			Slot:        pg.Slot,
			Publication: pg.Publication,
			Table:       cfg.PostgresTable(),
			CreateSlot:  pg.CreateSlot,
			Columns:     cfg.Sink.Columns,
			Types:       cfg.Sink.Types,
		}
		if cfg.Checkpoint.Path != "" {
			cp, err := checkpoint.New(&checkpoint.Config{Path: cfg.Checkpoint.Path, Slot: pg.Slot})
			if err != nil {
				return nil, err
			}
			*deps = append(*deps, cp)
			pgCfg.Checkpoint = cp
		}
		return source.NewPostgres(pgCfg)
	}
	return nil, errors.New("unknown source type " + cfg.Source.Type)
}

package source

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgproto3"
	"github.com/rs/zerolog/log"
	"strings"
	"time"
)

//go:generate mockgen -destination=postgres_mock.go -package=source -source=postgres.go

const (
	outputPlugin = "pgoutput"

	// DefaultStandbyTimeout is how often the applied position is reported to the server.
	DefaultStandbyTimeout = 10 * time.Second

	pgDuplicateObject = "42710"
)

// checkpointer persists the end position of the last applied transaction.
type checkpointer interface {
	Load() (uint64, error)
	Save(pos uint64) error
}

// Postgres streams row changes of one table from a logical replication slot.
type Postgres struct {
	connConfig     *pgconn.Config
	slot           string
	publication    string
	createSlot     bool
	standbyTimeout time.Duration
	checkpoint     checkpointer
	decoder        *decoder

	conn    *pgconn.PgConn
	applied pglogrepl.LSN
}

type PostgresConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	Slot        string
	Publication string
	// Table is "name" or "schema.name".
	Table      string
	CreateSlot bool
	Columns    []string
	Types      []string
	// Checkpoint is optional. Without it the slot's confirmed position is used on restart.
	Checkpoint     checkpointer
	StandbyTimeout time.Duration
}

func (c *PostgresConfig) validate() error {
	var errGrp []error
	if c.Host == "" {
		errGrp = append(errGrp, errors.New("host required"))
	}
	if c.Database == "" {
		errGrp = append(errGrp, errors.New("database required"))
	}
	if c.User == "" {
		errGrp = append(errGrp, errors.New("user required"))
	}
	if c.Slot == "" {
		errGrp = append(errGrp, errors.New("slot required"))
	}
	if c.Publication == "" {
		errGrp = append(errGrp, errors.New("publication required"))
	}
	if c.Table == "" {
		errGrp = append(errGrp, errors.New("table required"))
	}
	if len(c.Columns) == 0 {
		errGrp = append(errGrp, errors.New("columns required"))
	}
	return errors.Join(errGrp...)
}

func NewPostgres(cfg *PostgresConfig) (*Postgres, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	conv, err := NewConverter(cfg.Columns, cfg.Types)
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	timeout := cfg.StandbyTimeout
	if timeout <= 0 {
		timeout = DefaultStandbyTimeout
	}

	connConfig, err := pgconn.ParseConfig(fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s replication=database",
		quoteConnValue(cfg.Host), port, quoteConnValue(cfg.Database),
		quoteConnValue(cfg.User), quoteConnValue(cfg.Password)))
	if err != nil {
		return nil, fmt.Errorf("invalid connection settings: %w", err)
	}

	return &Postgres{
		connConfig:     connConfig,
		slot:           cfg.Slot,
		publication:    cfg.Publication,
		createSlot:     cfg.CreateSlot,
		standbyTimeout: timeout,
		checkpoint:     cfg.Checkpoint,
		decoder:        newDecoder(cfg.Table, cfg.Columns, conv),
	}, nil
}

// quoteConnValue quotes v for a key/value connection string.
func quoteConnValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (p *Postgres) Name() string {
	return "postgres slot " + p.slot
}

// Run replicates until ctx is done or the connection fails. Events of a transaction are handed
// over before its commit is checkpointed.
func (p *Postgres) Run(ctx context.Context, handle Handler) error {
	conn, err := pgconn.ConnectConfig(ctx, p.connConfig)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	p.conn = conn
	defer func() {
		_ = conn.Close(context.Background())
		p.conn = nil
	}()

	if p.createSlot {
		if err = p.ensureSlot(ctx); err != nil {
			return err
		}
	}

	var start pglogrepl.LSN
	if p.checkpoint != nil {
		pos, err := p.checkpoint.Load()
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		start = pglogrepl.LSN(pos)
	}
	p.applied = start

	err = pglogrepl.StartReplication(ctx, conn, p.slot, start, pglogrepl.StartReplicationOptions{
		PluginArgs: []string{
			"proto_version '1'",
			fmt.Sprintf("publication_names '%s'", p.publication),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start replication: %w", err)
	}
	log.Info().Str("slot", p.slot).Str("lsn", start.String()).Msg("replication started")

	nextStatus := time.Now().Add(p.standbyTimeout)
	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		if time.Now().After(nextStatus) {
			if err = p.sendStatus(ctx); err != nil {
				return err
			}
			nextStatus = time.Now().Add(p.standbyTimeout)
		}

		rctx, cancel := context.WithDeadline(ctx, nextStatus)
		msg, err := conn.ReceiveMessage(rctx)
		cancel()
		if err != nil {
			if pgconn.Timeout(err) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive message failed: %w", err)
		}

		switch msg := msg.(type) {
		case *pgproto3.CopyData:
			if err = p.copyData(ctx, msg.Data, handle); err != nil {
				return err
			}
		case *pgproto3.ErrorResponse:
			return fmt.Errorf("replication error: %s", msg.Message)
		}
	}
}

func (p *Postgres) ensureSlot(ctx context.Context) error {
	result, err := pglogrepl.CreateReplicationSlot(ctx, p.conn, p.slot, outputPlugin,
		pglogrepl.CreateReplicationSlotOptions{})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgDuplicateObject {
			return nil
		}
		return fmt.Errorf("failed to create replication slot: %w", err)
	}
	log.Info().Str("slot", result.SlotName).Str("lsn", result.ConsistentPoint).Msg("replication slot created")
	return nil
}

func (p *Postgres) copyData(ctx context.Context, data []byte, handle Handler) error {
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case pglogrepl.PrimaryKeepaliveMessageByteID:
		pkm, err := pglogrepl.ParsePrimaryKeepaliveMessage(data[1:])
		if err != nil {
			return fmt.Errorf("failed to parse keepalive: %w", err)
		}
		if pkm.ReplyRequested {
			return p.sendStatus(ctx)
		}
	case pglogrepl.XLogDataByteID:
		xld, err := pglogrepl.ParseXLogData(data[1:])
		if err != nil {
			return fmt.Errorf("failed to parse xlog data: %w", err)
		}
		msg, err := pglogrepl.Parse(xld.WALData)
		if err != nil {
			return fmt.Errorf("failed to parse logical replication message: %w", err)
		}
		return p.dispatch(ctx, msg, handle)
	}
	return nil
}

// dispatch hands decoded events to handle and checkpoints commits.
func (p *Postgres) dispatch(ctx context.Context, msg pglogrepl.Message, handle Handler) error {
	if commit, ok := msg.(*pglogrepl.CommitMessage); ok {
		return p.commit(commit.TransactionEndLSN)
	}

	events, err := p.decoder.decode(msg)
	if err != nil {
		return err
	}
	for _, event := range events {
		if err = handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) commit(lsn pglogrepl.LSN) error {
	if lsn <= p.applied {
		return nil
	}
	if p.checkpoint != nil {
		if err := p.checkpoint.Save(uint64(lsn)); err != nil {
			return fmt.Errorf("failed to save checkpoint %s: %w", lsn, err)
		}
	}
	p.applied = lsn
	return nil
}

func (p *Postgres) sendStatus(ctx context.Context) error {
	err := pglogrepl.SendStandbyStatusUpdate(ctx, p.conn, pglogrepl.StandbyStatusUpdate{
		WALWritePosition: p.applied,
		WALFlushPosition: p.applied,
		WALApplyPosition: p.applied,
	})
	if err != nil {
		return fmt.Errorf("failed to send standby status: %w", err)
	}
	log.Debug().Str("lsn", p.applied.String()).Msg("standby status sent")
	return nil
}

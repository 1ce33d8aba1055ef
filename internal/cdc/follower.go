package cdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	v1 "github.com/litetable/litetable-cdc/go/v1"
	"github.com/litetable/litetable-sink/internal/store"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"io"
	"strings"
	"time"
)

// Event is one cell change published by a LiteTable server.
type Event struct {
	Operation string    `json:"operation"`
	RowKey    string    `json:"key"`
	Family    string    `json:"family"`
	Qualifier string    `json:"qualifier"`
	Value     []byte    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Tombstone bool      `json:"isTombstone"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

func fromProto(evt *v1.CDCEvent) *Event {
	e := &Event{
		Operation: strings.ToLower(evt.GetOperation().String()),
		RowKey:    evt.GetRowKey(),
		Family:    evt.GetFamily(),
		Qualifier: evt.GetQualifier(),
		Value:     evt.GetValue(),
		Tombstone: evt.GetTombstone(),
	}
	if ts := evt.GetTimestampUnix(); ts != 0 {
		e.Timestamp = time.Unix(0, ts).UTC()
	}
	if ts := evt.GetExpiresAtUnix(); ts != 0 {
		e.ExpiresAt = time.Unix(0, ts).UTC()
	}
	return e
}

// Follower subscribes to the CDC stream of a LiteTable server.
type Follower struct {
	address  string
	clientID string
	replay   bool
	auth     translator.Auth
	family   string
}

type Config struct {
	Address string
	// ClientID identifies the subscription. A random id is used when empty.
	ClientID string
	Replay   bool
	Auth     translator.Auth
	// Family limits delivered events to one family when set.
	Family string
}

func (c *Config) validate() error {
	if c.Address == "" {
		return errors.New("address required")
	}
	return nil
}

func New(cfg *Config) (*Follower, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	id := cfg.ClientID
	if id == "" {
		id = "litetable-sink-" + uuid.NewString()
	}
	return &Follower{
		address:  cfg.Address,
		clientID: id,
		replay:   cfg.Replay,
		auth:     cfg.Auth,
		family:   cfg.Family,
	}, nil
}

func (f *Follower) ClientID() string {
	return f.clientID
}

// Follow calls fn for every event until the stream ends, ctx is done or fn fails.
func (f *Follower) Follow(ctx context.Context, fn func(*Event) error) error {
	creds, err := store.TransportCredentials(f.auth)
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(f.address, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", f.address, err)
	}
	defer conn.Close()

	stream, err := v1.NewCDCServiceClient(conn).CDCStream(ctx, &v1.CDCSubscriptionRequest{
		ClientId: f.clientID,
		Replay:   f.replay,
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	log.Info().Str("address", f.address).Str("client", f.clientID).Msg("following CDC stream")

	for {
		evt, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("cdc stream: %w", err)
		}

		if f.family != "" && evt.GetFamily() != f.family {
			continue
		}
		if err = fn(fromProto(evt)); err != nil {
			return err
		}
	}
}

// JSONWriter returns a callback that writes each event to w as one JSON line.
func JSONWriter(w io.Writer) func(*Event) error {
	enc := json.NewEncoder(w)
	return func(e *Event) error {
		return enc.Encode(e)
	}
}

package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"github.com/litetable/litetable-db/pkg/proto"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"sync"
	"time"
)

//go:generate mockgen -destination=client_mock.go -package=store -source=client.go

// Metadata keys attached to every outgoing call.
const (
	TableHeader     = "x-litetable-table"
	NamespaceHeader = "x-litetable-namespace"
	PrincipalHeader = "x-litetable-principal"
)

var errNotConnected = errors.New("store client is not connected")

// litetableClient is the part of proto.LitetableServiceClient the sink uses.
type litetableClient interface {
	Write(ctx context.Context, in *proto.WriteRequest, opts ...grpc.CallOption) (*proto.LitetableData, error)
	Delete(ctx context.Context, in *proto.DeleteRequest, opts ...grpc.CallOption) (*proto.Empty, error)
	CreateFamily(ctx context.Context, in *proto.CreateFamilyRequest, opts ...grpc.CallOption) (*proto.Empty, error)
}

// Client submits point writes and deletes to a LiteTable server over gRPC.
type Client struct {
	target         translator.Target
	createFamilies bool
	deleteTTL      int32

	mu     sync.Mutex
	conn   *grpc.ClientConn
	client litetableClient
}

type Config struct {
	Target translator.Target
	// CreateFamilies registers every mapped family on Open.
	CreateFamilies bool
	// DeleteTTL is how long tombstones live before garbage collection. Zero keeps the server
	// default.
	DeleteTTL time.Duration
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Target.Address == "" {
		errGrp = append(errGrp, errors.New("address required"))
	}
	if c.DeleteTTL < 0 {
		errGrp = append(errGrp, errors.New("delete ttl cannot be negative"))
	}
	if c.Target.Auth.ClientSecurity && c.Target.Auth.CredentialFile == "" &&
		c.Target.Auth.RealmConfig == "" {
		log.Warn().Msg("client security enabled without a credential file: using system roots")
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		target:         cfg.Target,
		createFamilies: cfg.CreateFamilies,
		deleteTTL:      int32(cfg.DeleteTTL / time.Second),
	}, nil
}

// TransportCredentials picks gRPC credentials for auth. CredentialFile is a CA bundle and
// RealmConfig overrides the TLS server name.
func TransportCredentials(auth translator.Auth) (credentials.TransportCredentials, error) {
	if !auth.ClientSecurity {
		return insecure.NewCredentials(), nil
	}
	if auth.CredentialFile != "" {
		creds, err := credentials.NewClientTLSFromFile(auth.CredentialFile, auth.RealmConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load credential file: %w", err)
		}
		return creds, nil
	}
	return credentials.NewTLS(&tls.Config{
		ServerName: auth.RealmConfig,
		MinVersion: tls.VersionTLS12,
	}), nil
}

// Open dials the server. When configured it also creates the mapped families, which is a no-op
// for families that already exist.
func (c *Client) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	creds, err := TransportCredentials(c.target.Auth)
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(c.target.Address, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.target.Address, err)
	}

	client := proto.NewLitetableServiceClient(conn)
	if c.createFamilies && len(c.target.Families) > 0 {
		_, err = client.CreateFamily(c.outgoing(ctx), &proto.CreateFamilyRequest{
			Family: c.target.Families,
		})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("failed to create families %v: %w", c.target.Families, err)
		}
	}

	log.Info().
		Str("address", c.target.Address).
		Str("table", c.target.Table).
		Strs("families", c.target.Families).
		Msg("connected to LiteTable")

	c.conn = conn
	c.client = client
	return nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client = nil
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) current() (litetableClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil, errNotConnected
	}
	return c.client, nil
}

// outgoing attaches the pass-through configuration to ctx.
func (c *Client) outgoing(ctx context.Context) context.Context {
	var kv []string
	if c.target.Table != "" {
		kv = append(kv, TableHeader, c.target.Table)
	}
	if c.target.Namespace != "" {
		kv = append(kv, NamespaceHeader, c.target.Namespace)
	}
	if c.target.Auth.Principal != "" {
		kv = append(kv, PrincipalHeader, c.target.Auth.Principal)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

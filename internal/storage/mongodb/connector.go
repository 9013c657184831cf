package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"devEvents/internal/lib/logger/handlers/slogdiscard"
	"devEvents/internal/lib/logger/sl"
)

const defaultConnectTimeout = 10 * time.Second

var ErrMissingURI = errors.New("mongodb uri is required")

// DialFunc opens a client and makes sure the deployment answers.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Connector lazily opens one client and hands the same client to every
// caller for the lifetime of the process. Callers that arrive while a
// connection attempt is in flight wait for that attempt instead of starting
// their own. A failed attempt is not cached, so the next call retries.
type Connector struct {
	uri     string
	timeout time.Duration
	dial    DialFunc
	log     *slog.Logger

	mu     sync.RWMutex
	client *mongo.Client
	group  singleflight.Group
}

type Option func(*Connector)

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Connector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithDialer(dial DialFunc) Option {
	return func(c *Connector) {
		c.dial = dial
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Connector) {
		c.log = log
	}
}

func NewConnector(uri string, opts ...Option) (*Connector, error) {
	const op = "storage.mongodb.NewConnector"

	if uri == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingURI)
	}

	c := &Connector{
		uri:     uri,
		timeout: defaultConnectTimeout,
		dial:    dial,
		log:     slogdiscard.NewDiscardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Connector) Connect(ctx context.Context) (*mongo.Client, error) {
	const op = "storage.mongodb.Connect"

	if client := c.cached(); client != nil {
		return client, nil
	}

	v, err, shared := c.group.Do("connect", func() (interface{}, error) {
		if client := c.cached(); client != nil {
			return client, nil
		}

		// the attempt is shared, so one caller going away must not cancel it
		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		client, err := c.dial(dialCtx, c.uri)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()

		c.log.Info("mongodb connected successfully")

		return client, nil
	})
	if err != nil {
		c.log.Error("mongodb connection failed", sl.Err(err), slog.Bool("shared", shared))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v.(*mongo.Client), nil
}

// Disconnect closes the cached client, if any. A later Connect opens a new one.
func (c *Connector) Disconnect(ctx context.Context) error {
	const op = "storage.mongodb.Disconnect"

	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Connector) cached() *mongo.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return client, nil
}

package mongo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"expertise-marketplace/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Client owns a connected mongo client and the directory database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *log.Logger
}

func Connect(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (*Client, error) {
	uri := strings.TrimSpace(cfg.ConnectionString)
	if uri == "" {
		return nil, fmt.Errorf("empty mongo connection string")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetRetryWrites(false).
		SetRetryReads(true)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	if logger != nil {
		logger.Printf("[Mongo] connected | database=%s", cfg.Database)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

func (c *Client) Database() *mongo.Database {
	if c == nil {
		return nil
	}
	return c.database
}

func (c *Client) Collection(name string) *mongo.Collection {
	if c == nil || c.database == nil {
		return nil
	}
	return c.database.Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("nil mongo client")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.client.Disconnect(ctx); err != nil {
		return err
	}
	if c.logger != nil {
		c.logger.Printf("[Mongo] disconnected")
	}
	return nil
}

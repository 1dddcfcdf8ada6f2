package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoProvider hands out one process-wide client, created on first use and
// shared by every request afterwards. mongo.Connect does not dial, so the
// only error it memoizes is a bad URI or option set.
type MongoProvider struct {
	cfg MongoConfig

	once   sync.Once
	ready  atomic.Bool
	client *mongo.Client
	err    error
}

var ErrMongoNotConnected = errors.New("mongo client not initialized")

func NewMongoProvider(cfg MongoConfig) *MongoProvider {
	return &MongoProvider{cfg: cfg}
}

func (p *MongoProvider) Client() (*mongo.Client, error) {
	p.once.Do(func() {
		opts := options.Client().
			ApplyURI(p.cfg.URI).
			SetMaxPoolSize(20).
			SetServerSelectionTimeout(5 * time.Second).
			SetConnectTimeout(5 * time.Second)

		p.client, p.err = mongo.Connect(context.Background(), opts)
		p.ready.Store(p.err == nil)
	})

	return p.client, p.err
}

func (p *MongoProvider) Collection() (*mongo.Collection, error) {
	client, err := p.Client()
	if err != nil {
		return nil, err
	}

	return client.Database(p.cfg.Database).Collection(p.cfg.Collection), nil
}

func (p *MongoProvider) Ping(ctx context.Context) error {
	client, err := p.Client()
	if err != nil {
		return err
	}

	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client if one was ever created.
func (p *MongoProvider) Close(ctx context.Context) error {
	if !p.ready.Load() {
		return nil
	}

	return p.client.Disconnect(ctx)
}

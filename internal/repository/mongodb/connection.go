package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/yashpatel5000/auto-part/internal/config"
)

// Collection names. The raw catalog snapshots and the synced mirror live in
// two separate collections, keyed by part id and rrr_partId respectively.
const (
	PartsCollection       = "rrr-parts"
	SyncedPartsCollection = "shopify-parts"
)

// NewConnection connects to MongoDB and verifies the connection. A failure
// here is fatal to the process: without the local store the engine cannot
// guarantee at-most-one product per part.
func NewConnection(cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

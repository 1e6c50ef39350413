package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	pgerrors "github.com/pomgrid/pomgrid/pkg/errors"
)

const snapshotCollection = "snapshots"

// MongoStore persists snapshots in a MongoDB collection. Use it when
// several machines share one analysis history.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection
// with a short ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, pgerrors.Wrap(pgerrors.ErrCodeStoreUnavailable, err, "connect to MongoDB")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, pgerrors.Wrap(pgerrors.ErrCodeStoreUnavailable, err, "ping MongoDB")
	}

	return &MongoStore{
		client: client,
		col:    client.Database(database).Collection(snapshotCollection),
	}, nil
}

// Save inserts the snapshot as a new document.
func (s *MongoStore) Save(ctx context.Context, snap *Snapshot) error {
	if _, err := s.col.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// List returns summaries, newest first, without the Matrix payload.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"matrix": 0})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var snaps []*Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, fmt.Errorf("decode snapshots: %w", err)
	}
	return snaps, nil
}

// Get retrieves a full snapshot by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	var snap Snapshot
	err := s.col.FindOne(ctx, bson.M{"id": id}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

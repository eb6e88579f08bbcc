package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection is the slice of *mongo.Collection the KV repo uses.
type collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongodrv.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongodrv.UpdateResult, error)
}

type KVRepoMongo struct {
	coll      collection
	opTimeout time.Duration
	clock     func() time.Time
}

func NewKVRepo(db *mongodrv.Database, name string, opTimeout time.Duration) *KVRepoMongo {
	if name == "" {
		name = ColKV
	}
	return newKVRepo(db.Collection(name), opTimeout)
}

func newKVRepo(coll collection, opTimeout time.Duration) *KVRepoMongo {
	return &KVRepoMongo{coll: coll, opTimeout: opTimeout, clock: time.Now}
}

// Get returns found=false when no document exists for key.
func (r *KVRepoMongo) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc KVDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv.findOne %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// Set upserts the full document for key.
func (r *KVRepoMongo) Set(ctx context.Context, key, value string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	doc := KVDoc{Key: key, Value: value, UpdatedAt: r.clock().UTC()}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("kv.replaceOne %s: %w", key, err)
	}
	return nil
}

func (r *KVRepoMongo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opTimeout)
}

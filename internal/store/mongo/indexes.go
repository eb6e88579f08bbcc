package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the secondary indexes the storefront relies on. The
// key lookup itself rides on _id.
func EnsureIndexes(ctx context.Context, db *mongo.Database, collection string) error {
	if collection == "" {
		collection = ColKV
	}
	models := []mongo.IndexModel{
		newIndex("updated_at", -1, "kv_updated_at_desc"),
	}
	if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", collection, err)
	}
	return nil
}

func newIndex(field string, order int32, name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: order}},
		Options: options.Index().SetName(name),
	}
}

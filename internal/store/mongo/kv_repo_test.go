package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	docs       map[string]KVDoc
	findErr    error
	replaceErr error
	upserts    int
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongodrv.SingleResult {
	if f.findErr != nil {
		return mongodrv.NewSingleResultFromDocument(bson.D{}, f.findErr, nil)
	}
	key := filter.(bson.M)["_id"].(string)
	doc, ok := f.docs[key]
	if !ok {
		return mongodrv.NewSingleResultFromDocument(bson.D{}, mongodrv.ErrNoDocuments, nil)
	}
	return mongodrv.NewSingleResultFromDocument(doc, nil, nil)
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongodrv.UpdateResult, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	for _, o := range opts {
		if o.Upsert != nil && *o.Upsert {
			f.upserts++
		}
	}
	doc := replacement.(KVDoc)
	f.docs[doc.Key] = doc
	return &mongodrv.UpdateResult{MatchedCount: 1}, nil
}

func TestKVRepo_SetThenGet(t *testing.T) {
	ctx := context.Background()
	coll := &fakeCollection{docs: map[string]KVDoc{}}
	repo := newKVRepo(coll, time.Second)
	repo.clock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, repo.Set(ctx, "FAVORITES", `[{"id":3}]`))

	v, found, err := repo.Get(ctx, "FAVORITES")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":3}]`, v)
	assert.Equal(t, 1, coll.upserts)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), coll.docs["FAVORITES"].UpdatedAt)
}

func TestKVRepo_GetMissing(t *testing.T) {
	repo := newKVRepo(&fakeCollection{docs: map[string]KVDoc{}}, time.Second)

	v, found, err := repo.Get(context.Background(), "cart_items_v1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestKVRepo_Errors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := newKVRepo(&fakeCollection{docs: map[string]KVDoc{}, findErr: boom, replaceErr: boom}, 0)

	_, _, err := repo.Get(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, repo.Set(context.Background(), "k", "v"), boom)
}

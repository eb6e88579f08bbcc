package mongo

import "time"

const ColKV = "kv"

// KVDoc is one stored value. The storage key is the document id, so a write
// replaces the whole document.
type KVDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

package mongoblob

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/aula/core"
)

const (
	defaultDatabase = "aula"
	collectionName  = "blobs"
)

type document struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store persists blobs as documents of a MongoDB collection, keyed by _id.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ core.BlobStore = (*Store)(nil)

// Open connects to uri; the database is taken from the uri path, "aula" if absent.
func Open(ctx context.Context, uri string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to MongoDB")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging MongoDB")
	}

	dbName := defaultDatabase
	if cs, err := connstringDatabase(uri); err == nil && cs != "" {
		dbName = cs
	}
	return &Store{
		client:     client,
		collection: client.Database(dbName).Collection(collectionName),
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, core.ErrBlobNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading blob %q", key)
	}
	return doc.Data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	doc := document{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "writing blob %q", key)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return errors.Wrapf(err, "deleting blob %q", key)
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

package blob

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	inmemblob "github.com/trezcool/aula/storage/blob/inmem"
	mongoblob "github.com/trezcool/aula/storage/blob/mongo"
	pebbleblob "github.com/trezcool/aula/storage/blob/pebble"
	pgblob "github.com/trezcool/aula/storage/blob/postgres"
	sqliteblob "github.com/trezcool/aula/storage/blob/sqlite"
)

// Engines
const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EnginePebble   = "pebble"
	EngineMongo    = "mongo"
)

// Open returns the blob store selected by conf.Storage.Engine, instrumented with prometheus metrics.
func Open(ctx context.Context, conf *core.Config) (core.BlobStore, error) {
	var (
		store core.BlobStore
		err   error
	)
	dsn := conf.Storage.DSN

	switch conf.Storage.Engine {
	case EngineMemory:
		store = inmemblob.New()
	case EngineSQLite, "":
		store, err = sqliteblob.Open(dsn)
	case EnginePostgres:
		store, err = pgblob.Open(ctx, dsn)
	case EnginePebble:
		store, err = pebbleblob.Open(dsn)
	case EngineMongo:
		store, err = mongoblob.Open(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s storage", conf.Storage.Engine)
	}

	engine := conf.Storage.Engine
	if engine == "" {
		engine = EngineSQLite
	}
	return Instrument(engine, store), nil
}

package core

import (
	"context"
	"fmt"

	"familytree/internal/blob"
	"familytree/internal/config"
	"familytree/internal/infra/persistence/blobdoc"
	"familytree/internal/infra/persistence/file"
	"familytree/internal/infra/persistence/memory"
	"familytree/internal/infra/persistence/postgres"
	"familytree/internal/infra/persistence/sqlite"
	"familytree/pkg/domain"
)

// OpenPersistentStore selects and opens the document backend named by cfg.Driver
// (default file).
func OpenPersistentStore(ctx context.Context, cfg config.Storage) (domain.PersistentStore, error) {
	driver := domain.StorageDriver(cfg.Driver)
	if driver == "" {
		driver = domain.StorageFile
	}
	switch driver {
	case domain.StorageFile:
		return storeOrNil(file.NewStore(cfg.FileRoot))
	case domain.StorageMemory:
		return memory.NewStore(), nil
	case domain.StorageSQLite:
		return storeOrNil(sqlite.NewStore(cfg.SQLitePath))
	case domain.StoragePostgres:
		return storeOrNil(postgres.NewStore(ctx, cfg.PostgresDSN))
	case domain.StorageBlob:
		bs, err := blob.Open(ctx, blob.Settings{
			Driver: blob.Driver(cfg.Blob.Driver),
			FSRoot: cfg.Blob.FSRoot,
			S3: blob.S3Config{
				Region:    cfg.Blob.S3Region,
				Bucket:    cfg.Blob.S3Bucket,
				Endpoint:  cfg.Blob.S3Endpoint,
				PathStyle: cfg.Blob.S3PathStyle,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return storeOrNil(blobdoc.NewStore(bs, cfg.Blob.Prefix))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// storeOrNil keeps a failed constructor from leaking a typed nil into the interface.
func storeOrNil[S domain.PersistentStore](s S, err error) (domain.PersistentStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Package storageutils is the storage utility package
package storageutils

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/creatorcore/contextcore/pkg/dotdir"
	"github.com/creatorcore/contextcore/pkg/storage"
	"github.com/creatorcore/contextcore/pkg/storage/inmemory"
	"github.com/creatorcore/contextcore/pkg/storage/postgres"
	"github.com/creatorcore/contextcore/pkg/storage/sqlite"
)

const defaultSQLiteFile = "contextcore.db"

type NewDriverOpts struct {
	ProviderType string
	SQLitePath   string
	PostgresURL  string
}

func NewDriver(ctx context.Context, o *NewDriverOpts, logger *zap.Logger) (storage.Driver, error) {
	switch o.ProviderType {
	case "inmemory":
		return inmemory.NewDriver(), nil
	case "sqlite":
		path := o.SQLitePath
		if path == "" {
			target, err := dotdir.NewManager().Target("")
			if err != nil {
				return nil, fmt.Errorf("resolving sqlite path: %w", err)
			}
			path = filepath.Join(target, defaultSQLiteFile)
		}
		return sqlite.NewDriver(sqlite.Config{
			DBPath: path,
		}, logger)
	case "postgres":
		return postgres.NewDriver(ctx, o.PostgresURL, logger)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", o.ProviderType)
	}
}

// Package storage persists the final article list to files or MongoDB.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/colmyee/mediawire/internal/config"
	"github.com/colmyee/mediawire/internal/types"
)

// Storage is a sink for the merged article list.
type Storage interface {
	Name() string
	Store(articles []types.Article) error
	Close() error
}

// New creates the storage backend selected by config. Type "none"
// returns nil: the caller prints to the console only.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "json":
		return NewJSONStorage(filepath.Join(cfg.OutputPath, "articles.json"), logger), nil
	case "jsonl":
		return NewJSONLStorage(filepath.Join(cfg.OutputPath, "articles.jsonl"), logger)
	case "mongodb":
		return NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

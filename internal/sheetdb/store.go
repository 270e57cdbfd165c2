package sheetdb

import (
	"context"
	"log"

	"github.com/maroso-log/devtrack/internal/config"
)

// Store bundles the read path, the write path and the ID generator
// over one spreadsheet.
type Store struct {
	Registry *Registry
	Cache    *SnapshotCache
	Loader   *SnapshotLoader
	Mutator  *Mutator
	IDs      *IDGenerator
}

// Open wires the store from configuration. A missing write credential
// is not fatal: the loader still serves reads and every mutation
// returns ErrNoCredential.
func Open(ctx context.Context, cfg config.SheetConfig) (*Store, error) {
	registry := NewRegistry()
	for table, gid := range cfg.TabGIDs {
		registry.SetGID(table, gid)
	}

	cache := NewSnapshotCache(cfg.SnapshotTTL)
	loader := NewSnapshotLoader(cfg.SpreadsheetID, registry, cache)

	var api RowAPI
	client, err := NewClient(ctx, cfg.SpreadsheetID, cfg.CredentialsJSON, registry)
	switch err {
	case nil:
		api = client
	case ErrNoCredential:
		log.Println("⚠️ Sheet: no service credential, store is read-only")
	default:
		return nil, err
	}

	return &Store{
		Registry: registry,
		Cache:    cache,
		Loader:   loader,
		Mutator:  NewMutator(api, loader, cache),
		IDs:      NewIDGenerator(loader),
	}, nil
}

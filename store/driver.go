package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Ping(ctx context.Context) error

	// Schema.
	ApplySchema(ctx context.Context) error
	FindMigrationVersion(ctx context.Context) (string, error)
	UpsertMigrationVersion(ctx context.Context, version string) error

	// Interaction model related methods.
	CreateInteraction(ctx context.Context, create *Interaction) (*Interaction, error)
	ListInteractions(ctx context.Context, find *FindInteraction) ([]*Interaction, error)
	DeleteInteractions(ctx context.Context, delete *DeleteInteraction) (int64, error)
}

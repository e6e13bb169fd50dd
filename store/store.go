package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/wanderchat/internal/profile"
	"github.com/hrygo/wanderchat/internal/version"
)

// SchemaVersion is the schema version written by this release.
const SchemaVersion = "0.3.0"

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.Ping(ctx)
}

// Migrate applies the schema and records the schema version.
// A database written by a newer release is left untouched.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.driver.ApplySchema(ctx); err != nil {
		return err
	}

	current, err := s.driver.FindMigrationVersion(ctx)
	if err != nil {
		return err
	}

	switch {
	case current == "":
		slog.Info("Database initialized", "schema_version", SchemaVersion)
	case version.IsVersionGreaterThan(current, SchemaVersion):
		slog.Warn("Database schema is newer than this release",
			"schema_version", current,
			"release_schema_version", SchemaVersion,
		)
		return nil
	case !version.IsVersionGreaterThan(SchemaVersion, current):
		return nil
	default:
		slog.Info("Database schema upgraded", "from", current, "to", SchemaVersion)
	}

	return s.driver.UpsertMigrationVersion(ctx, SchemaVersion)
}

// CreateInteraction stores an exchange. UID and CreatedTs are filled when empty.
func (s *Store) CreateInteraction(ctx context.Context, create *Interaction) (*Interaction, error) {
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateInteraction(ctx, create)
}

func (s *Store) ListInteractions(ctx context.Context, find *FindInteraction) ([]*Interaction, error) {
	return s.driver.ListInteractions(ctx, find)
}

func (s *Store) DeleteInteractions(ctx context.Context, delete *DeleteInteraction) (int64, error) {
	return s.driver.DeleteInteractions(ctx, delete)
}

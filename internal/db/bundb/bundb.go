// Package bundb owns the Postgres connection and hands out the
// per-module repositories bound to it.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	fightdb "github.com/cagepicks/cagepicks-backend/app/modules/fight/infrastructure/repositories"
	fighterdb "github.com/cagepicks/cagepicks-backend/app/modules/fighter/infrastructure/repositories"
)

// DBService bundles the repositories that share one bun connection.
type DBService struct {
	Fighter fighterdb.Repository
	Fight   fightdb.Repository

	db *bun.DB
}

// GetDB returns the underlying connection pool, used by the migration
// CLI and integration tooling.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, dsn string) (*DBService, error) {
	sqldb, err := pgConn(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel((*fighterdb.Fighter)(nil))
	db.RegisterModel((*fightdb.FightRecord)(nil))

	return &DBService{
		Fighter: &fighterdb.FighterDBImpl{DB: db},
		Fight:   &fightdb.FightDBImpl{DB: db},
		db:      db,
	}, nil
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}

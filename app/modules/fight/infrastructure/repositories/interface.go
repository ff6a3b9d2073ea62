package fightdb

import (
	"context"

	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// Repository defines the fight-history persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id sharedtypes.FightID) (*fighttypes.FightRecord, error)
	ListRefs(ctx context.Context) ([]fighttypes.FightRef, error)
	ListByFighter(ctx context.Context, fighterID sharedtypes.FighterID) ([]*fighttypes.FightRecord, error)
	InsertMany(ctx context.Context, records []*fighttypes.FightRecord) error
	UpsertMany(ctx context.Context, records []*fighttypes.FightRecord) error
}

package fighterdb

import (
	"context"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// Repository defines the fighter roster persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id sharedtypes.FighterID) (*fightertypes.Fighter, error)
	ListRefs(ctx context.Context) ([]fightertypes.FighterRef, error)
	InsertMany(ctx context.Context, fighters []*fightertypes.Fighter) error
	UpsertMany(ctx context.Context, fighters []*fightertypes.Fighter) error
}

// Package adapters bridges the import service's store ports onto the
// fighter and fight repositories.
package adapters

import (
	"context"

	importservice "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application"
	fightdb "github.com/cagepicks/cagepicks-backend/app/modules/fight/infrastructure/repositories"
	fighterdb "github.com/cagepicks/cagepicks-backend/app/modules/fighter/infrastructure/repositories"
	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
)

// FighterStoreAdapter adapts the fighter repository to the import
// service's FighterStore port.
type FighterStoreAdapter struct {
	Repo fighterdb.Repository
}

func (a *FighterStoreAdapter) List(ctx context.Context) ([]fightertypes.FighterRef, error) {
	return a.Repo.ListRefs(ctx)
}

func (a *FighterStoreAdapter) AddMany(ctx context.Context, fighters []*fightertypes.Fighter, mode importservice.StoreMode) error {
	if mode == importservice.StoreModeReplace {
		return a.Repo.UpsertMany(ctx, fighters)
	}
	return a.Repo.InsertMany(ctx, fighters)
}

// FightStoreAdapter adapts the fight repository to the import
// service's FightStore port.
type FightStoreAdapter struct {
	Repo fightdb.Repository
}

func (a *FightStoreAdapter) List(ctx context.Context) ([]fighttypes.FightRef, error) {
	return a.Repo.ListRefs(ctx)
}

func (a *FightStoreAdapter) AddMany(ctx context.Context, records []*fighttypes.FightRecord, mode importservice.StoreMode) error {
	if mode == importservice.StoreModeReplace {
		return a.Repo.UpsertMany(ctx, records)
	}
	return a.Repo.InsertMany(ctx, records)
}

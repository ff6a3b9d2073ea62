package fighterdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// FighterDBImpl is the bun-backed Repository implementation.
type FighterDBImpl struct {
	DB *bun.DB
}

func (db *FighterDBImpl) GetByID(ctx context.Context, id sharedtypes.FighterID) (*fightertypes.Fighter, error) {
	var fighter Fighter
	err := db.DB.NewSelect().Model(&fighter).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return toSharedModel(&fighter), nil
}

// ListRefs returns the id/name projection of the whole roster, used by
// the import reconciler for name matching.
func (db *FighterDBImpl) ListRefs(ctx context.Context) ([]fightertypes.FighterRef, error) {
	var fighters []Fighter
	err := db.DB.NewSelect().
		Model(&fighters).
		Column("id", "first_name", "last_name").
		Order("last_name ASC", "first_name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fighter refs: %w", err)
	}

	refs := make([]fightertypes.FighterRef, 0, len(fighters))
	for _, f := range fighters {
		refs = append(refs, fightertypes.FighterRef{
			ID:        f.ID,
			FirstName: f.FirstName,
			LastName:  f.LastName,
		})
	}
	return refs, nil
}

// InsertMany inserts new fighters in a single transaction. A conflict
// on an existing id fails the whole batch; replacements go through
// UpsertMany instead.
func (db *FighterDBImpl) InsertMany(ctx context.Context, fighters []*fightertypes.Fighter) error {
	if len(fighters) == 0 {
		return nil
	}
	models := make([]*Fighter, 0, len(fighters))
	for _, f := range fighters {
		models = append(models, toDBModel(f))
	}
	return db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert %d fighters: %w", len(models), err)
		}
		return nil
	})
}

// UpsertMany overwrites existing fighters by id, inserting any that do
// not exist yet.
func (db *FighterDBImpl) UpsertMany(ctx context.Context, fighters []*fightertypes.Fighter) error {
	if len(fighters) == 0 {
		return nil
	}
	models := make([]*Fighter, 0, len(fighters))
	for _, f := range fighters {
		m := toDBModel(f)
		m.UpdatedAt = time.Now().UTC()
		models = append(models, m)
	}
	return db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			On("CONFLICT (id) DO UPDATE").
			Set("first_name = EXCLUDED.first_name").
			Set("last_name = EXCLUDED.last_name").
			Set("nickname = EXCLUDED.nickname").
			Set("dob = EXCLUDED.dob").
			Set("nationality = EXCLUDED.nationality").
			Set("gender = EXCLUDED.gender").
			Set("organization = EXCLUDED.organization").
			Set("weight_class = EXCLUDED.weight_class").
			Set("stance = EXCLUDED.stance").
			Set("gym = EXCLUDED.gym").
			Set("coach = EXCLUDED.coach").
			Set("team = EXCLUDED.team").
			Set("height_cm = EXCLUDED.height_cm").
			Set("reach_cm = EXCLUDED.reach_cm").
			Set("leg_reach_cm = EXCLUDED.leg_reach_cm").
			Set("record = EXCLUDED.record").
			Set("metrics = EXCLUDED.metrics").
			Set("active = EXCLUDED.active").
			Set("ranked = EXCLUDED.ranked").
			Set("rank = EXCLUDED.rank").
			Set("verified = EXCLUDED.verified").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert %d fighters: %w", len(models), err)
		}
		return nil
	})
}

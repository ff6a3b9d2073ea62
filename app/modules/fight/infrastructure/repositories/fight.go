package fightdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// FightDBImpl is the bun-backed Repository implementation.
type FightDBImpl struct {
	DB *bun.DB
}

func (db *FightDBImpl) GetByID(ctx context.Context, id sharedtypes.FightID) (*fighttypes.FightRecord, error) {
	var record FightRecord
	err := db.DB.NewSelect().Model(&record).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return toSharedModel(&record), nil
}

// ListRefs returns the projection used by the import reconciler for
// duplicate detection: id, fighter, event date, opponent name.
func (db *FightDBImpl) ListRefs(ctx context.Context) ([]fighttypes.FightRef, error) {
	var records []FightRecord
	err := db.DB.NewSelect().
		Model(&records).
		Column("id", "fighter_id", "event_date", "opponent_name").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fight refs: %w", err)
	}

	refs := make([]fighttypes.FightRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, fighttypes.FightRef{
			ID:           r.ID,
			FighterID:    r.FighterID,
			EventDate:    r.EventDate,
			OpponentName: r.OpponentName,
		})
	}
	return refs, nil
}

func (db *FightDBImpl) ListByFighter(ctx context.Context, fighterID sharedtypes.FighterID) ([]*fighttypes.FightRecord, error) {
	var records []FightRecord
	err := db.DB.NewSelect().
		Model(&records).
		Where("fighter_id = ?", fighterID).
		Order("event_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fights for fighter %s: %w", fighterID, err)
	}

	out := make([]*fighttypes.FightRecord, 0, len(records))
	for i := range records {
		out = append(out, toSharedModel(&records[i]))
	}
	return out, nil
}

// InsertMany inserts new fight records in a single transaction.
func (db *FightDBImpl) InsertMany(ctx context.Context, records []*fighttypes.FightRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]*FightRecord, 0, len(records))
	for _, r := range records {
		models = append(models, toDBModel(r))
	}
	return db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&models).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert %d fight records: %w", len(models), err)
		}
		return nil
	})
}

// UpsertMany overwrites existing fight records by id.
func (db *FightDBImpl) UpsertMany(ctx context.Context, records []*fighttypes.FightRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := make([]*FightRecord, 0, len(records))
	for _, r := range records {
		m := toDBModel(r)
		m.UpdatedAt = time.Now().UTC()
		models = append(models, m)
	}
	return db.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			On("CONFLICT (id) DO UPDATE").
			Set("fighter_id = EXCLUDED.fighter_id").
			Set("opponent_id = EXCLUDED.opponent_id").
			Set("opponent_name = EXCLUDED.opponent_name").
			Set("opponent_linked = EXCLUDED.opponent_linked").
			Set("event_name = EXCLUDED.event_name").
			Set("event_date = EXCLUDED.event_date").
			Set("event_org = EXCLUDED.event_org").
			Set("location = EXCLUDED.location").
			Set("result = EXCLUDED.result").
			Set("method = EXCLUDED.method").
			Set("method_detail = EXCLUDED.method_detail").
			Set("round = EXCLUDED.round").
			Set("time = EXCLUDED.time").
			Set("weight_class = EXCLUDED.weight_class").
			Set("bout_type = EXCLUDED.bout_type").
			Set("title_fight = EXCLUDED.title_fight").
			Set("title_fight_detail = EXCLUDED.title_fight_detail").
			Set("referee = EXCLUDED.referee").
			Set("scheduled_rounds = EXCLUDED.scheduled_rounds").
			Set("stats = EXCLUDED.stats").
			Set("rounds = EXCLUDED.rounds").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert %d fight records: %w", len(models), err)
		}
		return nil
	})
}

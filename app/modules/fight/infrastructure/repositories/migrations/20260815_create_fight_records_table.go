package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	fightdb "github.com/cagepicks/cagepicks-backend/app/modules/fight/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating fight_records table...")
			if _, err := db.NewCreateTable().Model((*fightdb.FightRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*fightdb.FightRecord)(nil)).
				Index("idx_fight_records_fighter_date").
				Column("fighter_id", "event_date").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("fight_records table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping fight_records table...")
			if _, err := db.NewDropTable().Model((*fightdb.FightRecord)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("fight_records table dropped successfully!")
			return nil
		},
	)
}

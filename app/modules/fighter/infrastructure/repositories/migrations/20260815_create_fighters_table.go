package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	fighterdb "github.com/cagepicks/cagepicks-backend/app/modules/fighter/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating fighters table...")
			if _, err := db.NewCreateTable().Model((*fighterdb.Fighter)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := db.NewCreateIndex().
				Model((*fighterdb.Fighter)(nil)).
				Index("idx_fighters_last_first").
				Column("last_name", "first_name").
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
			fmt.Println("fighters table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping fighters table...")
			if _, err := db.NewDropTable().Model((*fighterdb.Fighter)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
			fmt.Println("fighters table dropped successfully!")
			return nil
		},
	)
}

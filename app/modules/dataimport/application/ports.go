package importservice

import (
	"context"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
)

// StoreMode selects the bulk write semantics for a commit partition.
// The orchestrator issues one AddMany call per mode so a store that
// treats insert and upsert differently never branches per row.
type StoreMode string

const (
	StoreModeAdd     StoreMode = "add"
	StoreModeReplace StoreMode = "replace"
)

// FighterStore is the existing fighter roster the pipeline reads from
// and writes to. It is an external collaborator; the pipeline never
// owns the records it hands over.
type FighterStore interface {
	List(ctx context.Context) ([]fightertypes.FighterRef, error)
	AddMany(ctx context.Context, fighters []*fightertypes.Fighter, mode StoreMode) error
}

// FightStore is the existing fight-history store. AddMany may fail
// asynchronously; failures are reported to the session, never fatal to
// the process.
type FightStore interface {
	List(ctx context.Context) ([]fighttypes.FightRef, error)
	AddMany(ctx context.Context, records []*fighttypes.FightRecord, mode StoreMode) error
}

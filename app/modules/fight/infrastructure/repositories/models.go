package fightdb

import (
	"time"

	"github.com/uptrace/bun"

	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// FightRecord is the fight-history row. Whole-fight stats and the
// sparse per-round breakdown are JSONB; the per-round shape changes
// too often for columns.
type FightRecord struct {
	bun.BaseModel `bun:"table:fight_records,alias:fr"`

	ID             sharedtypes.FightID   `bun:"id,pk,type:varchar(128)"`
	FighterID      sharedtypes.FighterID `bun:"fighter_id,notnull,type:varchar(64)"`
	OpponentID     sharedtypes.FighterID `bun:"opponent_id,nullzero,type:varchar(64)"`
	OpponentName   string                `bun:"opponent_name,notnull"`
	OpponentLinked bool                  `bun:"opponent_linked,notnull,default:false"`

	EventName string    `bun:"event_name,notnull"`
	EventDate time.Time `bun:"event_date,nullzero"`
	EventOrg  string    `bun:"event_org,nullzero"`
	Location  string    `bun:"location,nullzero"`

	Result       fighttypes.Result `bun:"result,notnull,type:varchar(16)"`
	Method       string            `bun:"method,nullzero"`
	MethodDetail string            `bun:"method_detail,nullzero"`
	Round        int               `bun:"round,nullzero"`
	Time         string            `bun:"time,nullzero,type:varchar(8)"`

	WeightClass      string `bun:"weight_class,nullzero"`
	BoutType         string `bun:"bout_type,nullzero"`
	TitleFight       bool   `bun:"title_fight,notnull,default:false"`
	TitleFightDetail string `bun:"title_fight_detail,nullzero"`
	Referee          string `bun:"referee,nullzero"`
	ScheduledRounds  int    `bun:"scheduled_rounds,nullzero"`

	Stats  *fighttypes.FightStats     `bun:"stats,type:jsonb,nullzero"`
	Rounds []fighttypes.PerRoundStats `bun:"rounds,type:jsonb,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toDBModel(r *fighttypes.FightRecord) *FightRecord {
	if r == nil {
		return nil
	}
	return &FightRecord{
		ID:               r.ID,
		FighterID:        r.FighterID,
		OpponentID:       r.OpponentID,
		OpponentName:     r.OpponentName,
		OpponentLinked:   r.OpponentLinked,
		EventName:        r.EventName,
		EventDate:        r.EventDate,
		EventOrg:         r.EventOrg,
		Location:         r.Location,
		Result:           r.Result,
		Method:           r.Method,
		MethodDetail:     r.MethodDetail,
		Round:            r.Round,
		Time:             r.Time,
		WeightClass:      r.WeightClass,
		BoutType:         r.BoutType,
		TitleFight:       r.TitleFight,
		TitleFightDetail: r.TitleFightDetail,
		Referee:          r.Referee,
		ScheduledRounds:  r.ScheduledRounds,
		Stats:            r.Stats,
		Rounds:           r.Rounds,
	}
}

func toSharedModel(r *FightRecord) *fighttypes.FightRecord {
	if r == nil {
		return nil
	}
	return &fighttypes.FightRecord{
		ID:               r.ID,
		FighterID:        r.FighterID,
		OpponentID:       r.OpponentID,
		OpponentName:     r.OpponentName,
		OpponentLinked:   r.OpponentLinked,
		EventName:        r.EventName,
		EventDate:        r.EventDate,
		EventOrg:         r.EventOrg,
		Location:         r.Location,
		Result:           r.Result,
		Method:           r.Method,
		MethodDetail:     r.MethodDetail,
		Round:            r.Round,
		Time:             r.Time,
		WeightClass:      r.WeightClass,
		BoutType:         r.BoutType,
		TitleFight:       r.TitleFight,
		TitleFightDetail: r.TitleFightDetail,
		Referee:          r.Referee,
		ScheduledRounds:  r.ScheduledRounds,
		Stats:            r.Stats,
		Rounds:           r.Rounds,
	}
}

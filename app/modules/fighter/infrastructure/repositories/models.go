package fighterdb

import (
	"time"

	"github.com/uptrace/bun"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// Fighter is the roster row. Record and Metrics are stored as JSONB so
// stat-shape changes do not require column migrations.
type Fighter struct {
	bun.BaseModel `bun:"table:fighters,alias:f"`

	ID        sharedtypes.FighterID `bun:"id,pk,type:varchar(64)"`
	FirstName string                `bun:"first_name,notnull"`
	LastName  string                `bun:"last_name,notnull"`
	Nickname  string                `bun:"nickname,nullzero"`
	DOB       time.Time             `bun:"dob,nullzero"`

	Nationality string `bun:"nationality,nullzero"`
	Gender      string `bun:"gender,nullzero,type:varchar(16)"`

	Organization string `bun:"organization,nullzero"`
	WeightClass  string `bun:"weight_class,nullzero"`
	Stance       string `bun:"stance,nullzero,type:varchar(32)"`
	Gym          string `bun:"gym,nullzero"`
	Coach        string `bun:"coach,nullzero"`
	Team         string `bun:"team,nullzero"`

	HeightCM   float64 `bun:"height_cm,nullzero"`
	ReachCM    float64 `bun:"reach_cm,nullzero"`
	LegReachCM float64 `bun:"leg_reach_cm,nullzero"`

	Record  fightertypes.WinLossRecord      `bun:"record,type:jsonb"`
	Metrics fightertypes.PerformanceMetrics `bun:"metrics,type:jsonb"`

	Active   bool `bun:"active,notnull,default:true"`
	Ranked   bool `bun:"ranked,notnull,default:false"`
	Rank     int  `bun:"rank,nullzero"`
	Verified bool `bun:"verified,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toDBModel(f *fightertypes.Fighter) *Fighter {
	if f == nil {
		return nil
	}
	return &Fighter{
		ID:           f.ID,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Nickname:     f.Nickname,
		DOB:          f.DOB,
		Nationality:  f.Nationality,
		Gender:       f.Gender,
		Organization: f.Organization,
		WeightClass:  f.WeightClass,
		Stance:       f.Stance,
		Gym:          f.Gym,
		Coach:        f.Coach,
		Team:         f.Team,
		HeightCM:     f.HeightCM,
		ReachCM:      f.ReachCM,
		LegReachCM:   f.LegReachCM,
		Record:       f.Record,
		Metrics:      f.Metrics,
		Active:       f.Active,
		Ranked:       f.Ranked,
		Rank:         f.Rank,
		Verified:     f.Verified,
	}
}

func toSharedModel(f *Fighter) *fightertypes.Fighter {
	if f == nil {
		return nil
	}
	return &fightertypes.Fighter{
		ID:           f.ID,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Nickname:     f.Nickname,
		DOB:          f.DOB,
		Nationality:  f.Nationality,
		Gender:       f.Gender,
		Organization: f.Organization,
		WeightClass:  f.WeightClass,
		Stance:       f.Stance,
		Gym:          f.Gym,
		Coach:        f.Coach,
		Team:         f.Team,
		HeightCM:     f.HeightCM,
		ReachCM:      f.ReachCM,
		LegReachCM:   f.LegReachCM,
		Record:       f.Record,
		Metrics:      f.Metrics,
		Active:       f.Active,
		Ranked:       f.Ranked,
		Rank:         f.Rank,
		Verified:     f.Verified,
	}
}

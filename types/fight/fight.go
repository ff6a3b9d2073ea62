package fighttypes

import (
	"time"

	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// Result is the normalized outcome of a bout from the primary
// fighter's perspective.
type Result string

const (
	ResultWin       Result = "WIN"
	ResultLoss      Result = "LOSS"
	ResultDraw      Result = "DRAW"
	ResultNoContest Result = "NC"
	ResultPending   Result = "PENDING"
)

// FightRecord is a fighter-vs-opponent bout outcome. OpponentID is
// empty when the opponent could not be resolved against the roster;
// the record is still storable with only the display name.
type FightRecord struct {
	ID             sharedtypes.FightID
	FighterID      sharedtypes.FighterID
	OpponentID     sharedtypes.FighterID
	OpponentName   string
	OpponentLinked bool

	EventName string
	EventDate time.Time
	EventOrg  string
	Location  string

	Result       Result
	Method       string
	MethodDetail string
	Round        int
	Time         string // "M:SS" within the final round

	WeightClass      string
	BoutType         string
	TitleFight       bool
	TitleFightDetail string
	Referee          string
	ScheduledRounds  int

	// Stats is attached only when at least one numeric stat is non-zero.
	Stats *FightStats
	// Rounds is sparse: at most one entry per round number 1..5.
	Rounds []PerRoundStats
}

// FightStats is the flat whole-fight stat block.
type FightStats struct {
	Knockdowns         int     `json:"knockdowns"`
	SigStrLanded       int     `json:"sig_str_landed"`
	SigStrAttempted    int     `json:"sig_str_attempted"`
	SigStrPct          float64 `json:"sig_str_pct"`
	TotalStrLanded     int     `json:"total_str_landed"`
	TotalStrAttempted  int     `json:"total_str_attempted"`
	TakedownsLanded    int     `json:"td_landed"`
	TakedownsAttempted int     `json:"td_attempted"`
	TakedownPct        float64 `json:"td_pct"`
	SubAttempts        int     `json:"sub_attempts"`
	Reversals          int     `json:"reversals"`
	ControlTimeSeconds int     `json:"control_time_seconds"`
}

// HasData reports whether any stat is non-zero.
func (s FightStats) HasData() bool {
	return s != FightStats{}
}

// PerRoundStats is one round's stat breakdown. Pointer fields
// distinguish "recorded as zero" from "not recorded", which matters for
// sparse spreadsheet exports.
type PerRoundStats struct {
	Round int `json:"round"`

	Knockdowns        *int     `json:"knockdowns,omitempty"`
	SigStrLanded      *int     `json:"sig_str_landed,omitempty"`
	SigStrAttempted   *int     `json:"sig_str_attempted,omitempty"`
	SigStrPct         *float64 `json:"sig_str_pct,omitempty"`
	TotalStrLanded    *int     `json:"total_str_landed,omitempty"`
	TotalStrAttempted *int     `json:"total_str_attempted,omitempty"`

	TakedownsLanded    *int     `json:"td_landed,omitempty"`
	TakedownsAttempted *int     `json:"td_attempted,omitempty"`
	TakedownPct        *float64 `json:"td_pct,omitempty"`
	SubAttempts        *int     `json:"sub_attempts,omitempty"`
	Reversals          *int     `json:"reversals,omitempty"`
	ControlTimeSeconds *int     `json:"control_time_seconds,omitempty"`

	HeadLanded        *int `json:"head_landed,omitempty"`
	HeadAttempted     *int `json:"head_attempted,omitempty"`
	BodyLanded        *int `json:"body_landed,omitempty"`
	BodyAttempted     *int `json:"body_attempted,omitempty"`
	LegLanded         *int `json:"leg_landed,omitempty"`
	LegAttempted      *int `json:"leg_attempted,omitempty"`
	DistanceLanded    *int `json:"distance_landed,omitempty"`
	DistanceAttempted *int `json:"distance_attempted,omitempty"`
	ClinchLanded      *int `json:"clinch_landed,omitempty"`
	ClinchAttempted   *int `json:"clinch_attempted,omitempty"`
	GroundLanded      *int `json:"ground_landed,omitempty"`
	GroundAttempted   *int `json:"ground_attempted,omitempty"`

	// Leading percentages parsed out of the combined
	// "landed by target"/"landed by position" source columns.
	LandedByTargetPct   *int `json:"landed_by_target_pct,omitempty"`
	LandedByPositionPct *int `json:"landed_by_position_pct,omitempty"`
}

// FightRef is the minimal projection of an existing fight record used
// for duplicate detection.
type FightRef struct {
	ID           sharedtypes.FightID
	FighterID    sharedtypes.FighterID
	EventDate    time.Time
	OpponentName string
}

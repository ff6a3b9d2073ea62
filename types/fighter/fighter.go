package fightertypes

import (
	"strings"
	"time"

	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"
)

// Fighter is the roster entity produced by the import transformer and
// persisted by the fighter store.
type Fighter struct {
	ID          sharedtypes.FighterID
	FirstName   string
	LastName    string
	Nickname    string
	DOB         time.Time
	Nationality string
	Gender      string

	Organization string
	WeightClass  string
	Stance       string
	Gym          string
	Coach        string
	Team         string

	HeightCM   float64
	ReachCM    float64
	LegReachCM float64

	Record  WinLossRecord
	Metrics PerformanceMetrics

	Active   bool
	Ranked   bool
	Rank     int
	Verified bool
}

// FullName returns "First Last" with blank components dropped.
func (f *Fighter) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// WinLossRecord is a fighter's professional record.
type WinLossRecord struct {
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
	Draws            int `json:"draws"`
	NoContests       int `json:"no_contests"`
	WinsByKO         int `json:"wins_by_ko"`
	WinsBySubmission int `json:"wins_by_sub"`
	WinsByDecision   int `json:"wins_by_dec"`
}

// PerformanceMetrics holds the per-minute/percentage striking and
// grappling rates shown on fighter detail pages.
type PerformanceMetrics struct {
	StrikesLandedPerMin   float64 `json:"strikes_landed_per_min"`
	StrikesAbsorbedPerMin float64 `json:"strikes_absorbed_per_min"`
	StrikingAccuracyPct   float64 `json:"striking_accuracy_pct"`
	StrikingDefensePct    float64 `json:"striking_defense_pct"`
	TakedownAvg           float64 `json:"takedown_avg"`
	TakedownAccuracyPct   float64 `json:"takedown_accuracy_pct"`
	TakedownDefensePct    float64 `json:"takedown_defense_pct"`
	SubmissionAvg         float64 `json:"submission_avg"`
	WinStreak             int     `json:"win_streak"`
	LossStreak            int     `json:"loss_streak"`
}

// FighterRef is the minimal projection the reconciler needs from the
// existing roster.
type FighterRef struct {
	ID        sharedtypes.FighterID
	FirstName string
	LastName  string
}

// FullName returns "First Last" for status messages.
func (r FighterRef) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

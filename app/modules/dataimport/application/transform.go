package importservice

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
	sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"

	"github.com/google/uuid"
)

// Transformer converts triaged import rows into fully typed target
// records. A nil return means "drop this row" with a logged warning;
// coercion failures never escape, every malformed cell degrades to its
// documented default.
type Transformer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewTransformer creates a transformer. The clock is injectable for
// deterministic fight-id generation in tests.
func NewTransformer(logger *slog.Logger) *Transformer {
	return &Transformer{logger: logger, now: time.Now}
}

// TransformFighter builds a Fighter record from a ready row. Rows
// whose first or last name cell is empty are dropped: mapping
// validation guarantees the columns exist, not that every row filled
// them in.
func (t *Transformer) TransformFighter(ctx context.Context, row importtypes.ImportRow, mappings []importtypes.FieldMapping) *fightertypes.Fighter {
	value := func(field string) string { return mappedValue(row.RawData, mappings, field) }

	first := value("first_name")
	last := value("last_name")
	if first == "" || last == "" {
		t.logger.WarnContext(ctx, "Dropping fighter row without a name",
			attr.String("row_id", row.ID),
		)
		return nil
	}

	// A replaced duplicate must keep the matched record's id so the
	// upsert overwrites it instead of inserting a second copy.
	id := row.MatchedExistingID
	if id == "" {
		id = value("id")
	}
	if id == "" {
		id = uuid.NewString()
	}

	return &fightertypes.Fighter{
		ID:          sharedtypes.FighterID(id),
		FirstName:   first,
		LastName:    last,
		Nickname:    value("nickname"),
		DOB:         coerceDate(value("dob")),
		Nationality: value("nationality"),
		Gender:      value("gender"),

		Organization: value("org"),
		WeightClass:  value("weight_class"),
		Stance:       value("stance"),
		Gym:          value("gym"),
		Coach:        value("coach"),
		Team:         value("team"),

		HeightCM:   coerceFloat(value("height_cm"), 0),
		ReachCM:    coerceFloat(value("reach_cm"), 0),
		LegReachCM: coerceFloat(value("leg_reach_cm"), 0),

		Record: fightertypes.WinLossRecord{
			Wins:             coerceInt(value("wins"), 0),
			Losses:           coerceInt(value("losses"), 0),
			Draws:            coerceInt(value("draws"), 0),
			NoContests:       coerceInt(value("no_contests"), 0),
			WinsByKO:         coerceInt(value("wins_by_ko"), 0),
			WinsBySubmission: coerceInt(value("wins_by_sub"), 0),
			WinsByDecision:   coerceInt(value("wins_by_dec"), 0),
		},
		Metrics: fightertypes.PerformanceMetrics{
			StrikesLandedPerMin:   coerceFloat(value("strikes_landed_per_min"), 0),
			StrikesAbsorbedPerMin: coerceFloat(value("strikes_absorbed_per_min"), 0),
			StrikingAccuracyPct:   coerceFloat(value("striking_accuracy_pct"), 0),
			StrikingDefensePct:    coerceFloat(value("striking_defense_pct"), 0),
			TakedownAvg:           coerceFloat(value("takedown_avg"), 0),
			TakedownAccuracyPct:   coerceFloat(value("takedown_accuracy_pct"), 0),
			TakedownDefensePct:    coerceFloat(value("takedown_defense_pct"), 0),
			SubmissionAvg:         coerceFloat(value("submission_avg"), 0),
			WinStreak:             coerceInt(value("win_streak"), 0),
			LossStreak:            coerceInt(value("loss_streak"), 0),
		},

		Active:   coerceBool(value("active")),
		Ranked:   coerceBool(value("ranked")),
		Rank:     coerceInt(value("rank"), 0),
		Verified: coerceBool(value("verified")),
	}
}

// TransformFight builds a FightRecord from a ready, reconciled row.
// The row must carry a resolved fighter id; opponent linkage is
// optional and an unlinked opponent keeps only its display name.
func (t *Transformer) TransformFight(ctx context.Context, row importtypes.ImportRow, mappings []importtypes.FieldMapping) *fighttypes.FightRecord {
	value := func(field string) string { return mappedValue(row.RawData, mappings, field) }

	if row.ResolvedFighterID == "" {
		t.logger.WarnContext(ctx, "Dropping fight row without a resolved fighter",
			attr.String("row_id", row.ID),
		)
		return nil
	}
	opponentName := value("opponent_full_name")
	if opponentName == "" {
		t.logger.WarnContext(ctx, "Dropping fight row without an opponent name",
			attr.String("row_id", row.ID),
		)
		return nil
	}

	eventDate := coerceDate(value("event_date"))

	// Same id rule as fighters: a matched duplicate keeps the existing
	// fight's id so a replace lands on that row.
	fightID := row.MatchedExistingID
	if fightID == "" {
		fightID = value("fight_id")
	}
	if fightID == "" {
		fightID = t.generateFightID(row.ResolvedFighterID, eventDate, opponentName)
	}

	record := &fighttypes.FightRecord{
		ID:             sharedtypes.FightID(fightID),
		FighterID:      row.ResolvedFighterID,
		OpponentID:     row.MatchedOpponentID,
		OpponentName:   opponentName,
		OpponentLinked: row.OpponentLinked,

		EventName: value("event_name"),
		EventDate: eventDate,
		EventOrg:  value("event_org"),
		Location:  value("location"),

		Result:       normalizeResult(value("result")),
		Method:       normalizeMethod(value("method")),
		MethodDetail: value("method_detail"),
		Round:        coerceInt(value("round"), 0),
		Time:         roundTime(value("time")),

		WeightClass:     value("weight_class"),
		BoutType:        value("bout_type"),
		Referee:         value("referee"),
		ScheduledRounds: coerceInt(value("scheduled_rounds"), 0),

		Rounds: buildPerRoundStats(row.RawData, mappings),
	}

	record.TitleFight, record.TitleFightDetail = titleFight(
		value("bout_type"), value("title_fight"), value("title_fight_detail"),
	)

	stats := fighttypes.FightStats{
		Knockdowns:         coerceInt(value("knockdowns"), 0),
		SigStrLanded:       coerceInt(value("sig_str_landed"), 0),
		SigStrAttempted:    coerceInt(value("sig_str_attempted"), 0),
		SigStrPct:          coerceFloat(value("sig_str_pct"), 0),
		TotalStrLanded:     coerceInt(value("total_str_landed"), 0),
		TotalStrAttempted:  coerceInt(value("total_str_attempted"), 0),
		TakedownsLanded:    coerceInt(value("td_landed"), 0),
		TakedownsAttempted: coerceInt(value("td_attempted"), 0),
		TakedownPct:        coerceFloat(value("td_pct"), 0),
		SubAttempts:        coerceInt(value("sub_attempts"), 0),
		Reversals:          coerceInt(value("reversals"), 0),
		ControlTimeSeconds: controlSeconds(value("control_time")),
	}
	// An all-zero stats object for fights imported with minimal columns
	// is noise; only attach when something was recorded.
	if stats.HasData() {
		record.Stats = &stats
	}

	return record
}

// titleFight ORs the three independent title signals together. The
// detail text is preserved only when the bout is ultimately flagged.
func titleFight(boutType, flag, detail string) (bool, string) {
	isTitle := strings.Contains(strings.ToLower(boutType), "title")
	isTitle = isTitle || coerceBool(flag)

	detailTrimmed := strings.TrimSpace(detail)
	detailSignals := detailTrimmed != "" &&
		!strings.EqualFold(detailTrimmed, "false") &&
		!strings.EqualFold(detailTrimmed, "no")
	isTitle = isTitle || detailSignals

	if !isTitle {
		return false, ""
	}
	return true, detailTrimmed
}

var fightIDStrip = regexp.MustCompile(`[^a-z0-9]+`)

// generateFightID derives a fight id from the fighter, event date, and
// opponent, salted with the current unix-millis so repeated imports of
// the same logical bout never collide.
func (t *Transformer) generateFightID(fighterID sharedtypes.FighterID, eventDate time.Time, opponentName string) string {
	opponentSlug := strings.Trim(fightIDStrip.ReplaceAllString(strings.ToLower(opponentName), "-"), "-")
	return fmt.Sprintf("%s-%s-%s-%d", fighterID, eventDate.Format("20060102"), opponentSlug, t.now().UnixMilli())
}

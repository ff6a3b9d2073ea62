package importservice

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fighterRow(raw map[string]string) importtypes.ImportRow {
	return importtypes.ImportRow{ID: "row-1", RawData: raw, Status: importtypes.RowReady}
}

func TestTransformFighter(t *testing.T) {
	tr := NewTransformer(testLogger())
	ctx := context.Background()

	t.Run("full row", func(t *testing.T) {
		mappings := identityMappings(
			"id", "first_name", "last_name", "nickname", "dob", "weight_class",
			"height_cm", "reach_cm", "wins", "losses", "draws", "no_contests",
			"strikes_landed_per_min", "takedown_avg", "active", "ranked", "rank",
		)
		row := fighterRow(map[string]string{
			"id":                     "f-9",
			"first_name":             "Jon",
			"last_name":              "Jones",
			"nickname":               "Bones",
			"dob":                    "1987-07-19",
			"weight_class":           "Heavyweight",
			"height_cm":              "193 cm",
			"reach_cm":               "215",
			"wins":                   "28",
			"losses":                 "1",
			"draws":                  "0",
			"no_contests":            "1",
			"strikes_landed_per_min": "4.29",
			"takedown_avg":           "1.9",
			"active":                 "yes",
			"ranked":                 "true",
			"rank":                   "1",
		})

		fighter := tr.TransformFighter(ctx, row, mappings)
		require.NotNil(t, fighter)
		require.Equal(t, "f-9", string(fighter.ID))
		require.Equal(t, "Jon Jones", fighter.FullName())
		require.Equal(t, "Bones", fighter.Nickname)
		require.Equal(t, "1987-07-19", fighter.DOB.Format("2006-01-02"))
		require.Equal(t, 193.0, fighter.HeightCM)
		require.Equal(t, 28, fighter.Record.Wins)
		require.Equal(t, 1, fighter.Record.Losses)
		require.Equal(t, 1, fighter.Record.NoContests)
		require.Equal(t, 4.29, fighter.Metrics.StrikesLandedPerMin)
		require.True(t, fighter.Active)
		require.True(t, fighter.Ranked)
		require.Equal(t, 1, fighter.Rank)
	})

	t.Run("missing id gets generated", func(t *testing.T) {
		mappings := identityMappings("first_name", "last_name")
		fighter := tr.TransformFighter(ctx, fighterRow(map[string]string{
			"first_name": "Alex", "last_name": "Pereira",
		}), mappings)
		require.NotNil(t, fighter)
		require.NotEmpty(t, fighter.ID)
	})

	t.Run("matched duplicate keeps the existing id", func(t *testing.T) {
		mappings := identityMappings("first_name", "last_name")
		row := fighterRow(map[string]string{
			"first_name": "Jon", "last_name": "Jones",
		})
		row.MatchedExistingID = "f-1"
		row.Action = importtypes.RowActionReplace

		fighter := tr.TransformFighter(ctx, row, mappings)
		require.NotNil(t, fighter)
		require.Equal(t, "f-1", string(fighter.ID))
	})

	t.Run("matched id wins over the id cell", func(t *testing.T) {
		mappings := identityMappings("id", "first_name", "last_name")
		row := fighterRow(map[string]string{
			"id": "stale-id", "first_name": "Jon", "last_name": "Jones",
		})
		row.MatchedExistingID = "f-1"

		fighter := tr.TransformFighter(ctx, row, mappings)
		require.NotNil(t, fighter)
		require.Equal(t, "f-1", string(fighter.ID))
	})

	t.Run("missing name drops the row", func(t *testing.T) {
		mappings := identityMappings("first_name", "last_name", "wins")
		require.Nil(t, tr.TransformFighter(ctx, fighterRow(map[string]string{
			"first_name": "Alex", "wins": "9",
		}), mappings))
		require.Nil(t, tr.TransformFighter(ctx, fighterRow(map[string]string{
			"last_name": "Pereira",
		}), mappings))
	})

	t.Run("malformed numerics degrade to zero", func(t *testing.T) {
		mappings := identityMappings("first_name", "last_name", "wins", "height_cm")
		fighter := tr.TransformFighter(ctx, fighterRow(map[string]string{
			"first_name": "Alex", "last_name": "Pereira",
			"wins": "n/a", "height_cm": "unknown",
		}), mappings)
		require.NotNil(t, fighter)
		require.Zero(t, fighter.Record.Wins)
		require.Zero(t, fighter.HeightCM)
	})
}

func fightRow(raw map[string]string) importtypes.ImportRow {
	return importtypes.ImportRow{
		ID:                "row-1",
		RawData:           raw,
		Status:            importtypes.RowReady,
		ResolvedFighterID: "f-1",
	}
}

func TestTransformFight(t *testing.T) {
	tr := NewTransformer(testLogger())
	ctx := context.Background()

	baseMappings := identityMappings(
		"fight_id", "opponent_full_name", "event_name", "event_date", "event_org",
		"result", "method", "round", "time", "weight_class", "bout_type",
		"title_fight", "title_fight_detail", "scheduled_rounds",
		"knockdowns", "sig_str_landed", "sig_str_attempted", "control_time",
	)

	t.Run("full row", func(t *testing.T) {
		record := tr.TransformFight(ctx, fightRow(map[string]string{
			"fight_id":           "ufc285-jones-gane",
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"event_date":         "2023-03-04",
			"event_org":          "UFC",
			"result":             "W",
			"method":             "sub",
			"round":              "1",
			"time":               "2:04",
			"weight_class":       "Heavyweight",
			"scheduled_rounds":   "5",
			"knockdowns":         "0",
			"sig_str_landed":     "8",
			"sig_str_attempted":  "9",
			"control_time":       "1:30",
		}), baseMappings)

		require.NotNil(t, record)
		require.Equal(t, "ufc285-jones-gane", string(record.ID))
		require.Equal(t, "f-1", string(record.FighterID))
		require.Equal(t, fighttypes.ResultWin, record.Result)
		require.Equal(t, "Submission", record.Method)
		require.Equal(t, 1, record.Round)
		require.Equal(t, "2:04", record.Time)
		require.Equal(t, 5, record.ScheduledRounds)
		require.NotNil(t, record.Stats)
		require.Equal(t, 8, record.Stats.SigStrLanded)
		require.Equal(t, 90, record.Stats.ControlTimeSeconds)
	})

	t.Run("unresolved fighter drops the row", func(t *testing.T) {
		row := fightRow(map[string]string{"opponent_full_name": "Ciryl Gane"})
		row.ResolvedFighterID = ""
		require.Nil(t, tr.TransformFight(ctx, row, baseMappings))
	})

	t.Run("missing opponent name drops the row", func(t *testing.T) {
		require.Nil(t, tr.TransformFight(ctx, fightRow(map[string]string{
			"event_name": "UFC 285",
		}), baseMappings))
	})

	t.Run("missing fight id gets generated", func(t *testing.T) {
		record := tr.TransformFight(ctx, fightRow(map[string]string{
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"event_date":         "2023-03-04",
			"result":             "W",
		}), baseMappings)
		require.NotNil(t, record)
		require.True(t, strings.HasPrefix(string(record.ID), "f-1-20230304-ciryl-gane-"))
	})

	t.Run("matched duplicate keeps the existing fight id", func(t *testing.T) {
		row := fightRow(map[string]string{
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"event_date":         "2023-03-04",
			"result":             "W",
		})
		row.MatchedExistingID = "fight-42"
		row.Action = importtypes.RowActionReplace

		record := tr.TransformFight(ctx, row, baseMappings)
		require.NotNil(t, record)
		require.Equal(t, "fight-42", string(record.ID))
	})

	t.Run("no recorded stats leaves Stats nil", func(t *testing.T) {
		record := tr.TransformFight(ctx, fightRow(map[string]string{
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"result":             "W",
		}), baseMappings)
		require.NotNil(t, record)
		require.Nil(t, record.Stats)
		require.Empty(t, record.Rounds)
	})

	t.Run("unknown result becomes pending", func(t *testing.T) {
		record := tr.TransformFight(ctx, fightRow(map[string]string{
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"result":             "???",
		}), baseMappings)
		require.Equal(t, fighttypes.ResultPending, record.Result)
	})
}

func TestTransformFight_TitleFight(t *testing.T) {
	tr := NewTransformer(testLogger())
	ctx := context.Background()
	mappings := identityMappings(
		"opponent_full_name", "event_name", "result",
		"bout_type", "title_fight", "title_fight_detail",
	)

	build := func(extra map[string]string) *fighttypes.FightRecord {
		raw := map[string]string{
			"opponent_full_name": "Ciryl Gane",
			"event_name":         "UFC 285",
			"result":             "W",
		}
		for k, v := range extra {
			raw[k] = v
		}
		return tr.TransformFight(ctx, fightRow(raw), mappings)
	}

	t.Run("bout type containing title", func(t *testing.T) {
		record := build(map[string]string{"bout_type": "UFC Heavyweight Title Bout"})
		require.True(t, record.TitleFight)
	})

	t.Run("explicit flag", func(t *testing.T) {
		record := build(map[string]string{"title_fight": "yes"})
		require.True(t, record.TitleFight)
	})

	t.Run("detail text alone flags it", func(t *testing.T) {
		record := build(map[string]string{"title_fight_detail": "Heavyweight Championship"})
		require.True(t, record.TitleFight)
		require.Equal(t, "Heavyweight Championship", record.TitleFightDetail)
	})

	t.Run("detail of false does not flag", func(t *testing.T) {
		record := build(map[string]string{"title_fight_detail": "false"})
		require.False(t, record.TitleFight)
		require.Empty(t, record.TitleFightDetail)
	})

	t.Run("non-title bout", func(t *testing.T) {
		record := build(map[string]string{"bout_type": "Main Card"})
		require.False(t, record.TitleFight)
		require.Empty(t, record.TitleFightDetail)
	})
}

func TestTransformFight_PerRoundStats(t *testing.T) {
	tr := NewTransformer(testLogger())
	ctx := context.Background()
	mappings := identityMappings(
		"opponent_full_name", "event_name", "result",
		"r1_kd", "r1_sig_str_landed", "r1_sig_str_attempted",
		"r2_sig_str", "r2_sig_str_landed",
		"r3_control_time", "r3_landed_by_target",
	)

	record := tr.TransformFight(ctx, fightRow(map[string]string{
		"opponent_full_name": "Ciryl Gane",
		"event_name":         "UFC 285",
		"result":             "W",

		"r1_kd":                "1",
		"r1_sig_str_landed":    "12",
		"r1_sig_str_attempted": "20",

		// The combined cell wins over the discrete one for round 2.
		"r2_sig_str":        "10 of 20 - 50%",
		"r2_sig_str_landed": "99",

		"r3_control_time":     "2:15",
		"r3_landed_by_target": "45% head, 30% body",
	}), mappings)

	require.NotNil(t, record)
	require.Len(t, record.Rounds, 3)

	r1 := record.Rounds[0]
	require.Equal(t, 1, r1.Round)
	require.Equal(t, 1, *r1.Knockdowns)
	require.Equal(t, 12, *r1.SigStrLanded)
	require.Equal(t, 20, *r1.SigStrAttempted)
	require.Nil(t, r1.ControlTimeSeconds)

	r2 := record.Rounds[1]
	require.Equal(t, 2, r2.Round)
	require.Equal(t, 10, *r2.SigStrLanded)
	require.Equal(t, 20, *r2.SigStrAttempted)
	require.Equal(t, 50.0, *r2.SigStrPct)

	r3 := record.Rounds[2]
	require.Equal(t, 3, r3.Round)
	require.Equal(t, 135, *r3.ControlTimeSeconds)
	require.Equal(t, 45, *r3.LandedByTargetPct)
	require.Nil(t, r3.Knockdowns)
}

func TestTransformFight_SparseRoundsSkipEmpty(t *testing.T) {
	tr := NewTransformer(testLogger())
	ctx := context.Background()
	mappings := identityMappings(
		"opponent_full_name", "event_name", "result",
		"r1_kd", "r2_kd", "r3_kd", "r4_kd", "r5_kd",
	)

	record := tr.TransformFight(ctx, fightRow(map[string]string{
		"opponent_full_name": "Ciryl Gane",
		"event_name":         "UFC 285",
		"result":             "W",
		"r1_kd":              "1",
		"r2_kd":              "0",
		"r3_kd":              "2",
	}), mappings)

	require.NotNil(t, record)
	// Round 2 is all-zero and rounds 4-5 are empty; only 1 and 3 appear.
	require.Len(t, record.Rounds, 2)
	require.Equal(t, 1, record.Rounds[0].Round)
	require.Equal(t, 3, record.Rounds[1].Round)
}

package importservice

import (
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// buildPerRoundStats assembles the sparse per-round stat list from a
// mapped row. Rounds carrying no data are skipped entirely, so a
// three-round fight yields no entries for rounds 4-5. A combined
// r{n}_sig_str cell that parses takes priority over separately-mapped
// discrete landed/attempted/pct cells for the same round.
func buildPerRoundStats(raw map[string]string, mappings []importtypes.FieldMapping) []fighttypes.PerRoundStats {
	var rounds []fighttypes.PerRoundStats
	for r := 1; r <= MaxRounds; r++ {
		if stats, ok := buildRound(r, raw, mappings); ok {
			rounds = append(rounds, stats)
		}
	}
	return rounds
}

func buildRound(r int, raw map[string]string, mappings []importtypes.FieldMapping) (fighttypes.PerRoundStats, bool) {
	if !roundHasData(r, raw, mappings) {
		return fighttypes.PerRoundStats{}, false
	}

	stats := fighttypes.PerRoundStats{Round: r}
	for _, suffix := range roundStatSuffixes {
		setRoundStat(&stats, suffix, mappedValue(raw, mappings, roundField(r, suffix)))
	}

	if combined := mappedValue(raw, mappings, roundField(r, "sig_str")); combined != "" {
		if landed, attempted, pct, ok := parseCombinedStat(combined); ok {
			stats.SigStrLanded = &landed
			stats.SigStrAttempted = &attempted
			stats.SigStrPct = &pct
		}
	}
	if v := mappedValue(raw, mappings, roundField(r, "landed_by_target")); v != "" {
		stats.LandedByTargetPct = leadingInt(v)
	}
	if v := mappedValue(raw, mappings, roundField(r, "landed_by_position")); v != "" {
		stats.LandedByPositionPct = leadingInt(v)
	}

	return stats, true
}

// roundHasData reports whether any of the round's discrete fields or
// combined fields carry a non-empty, non-zero value.
func roundHasData(r int, raw map[string]string, mappings []importtypes.FieldMapping) bool {
	for _, suffix := range combinedStatSuffixes {
		if mappedValue(raw, mappings, roundField(r, suffix)) != "" {
			return true
		}
	}
	for _, suffix := range roundStatSuffixes {
		v := mappedValue(raw, mappings, roundField(r, suffix))
		if v == "" {
			continue
		}
		if suffix == "control_time" {
			if controlSeconds(v) != 0 {
				return true
			}
			continue
		}
		if coerceFloat(v, 0) != 0 {
			return true
		}
	}
	return false
}

func setRoundStat(stats *fighttypes.PerRoundStats, suffix, raw string) {
	if raw == "" {
		return
	}
	switch suffix {
	case "kd":
		stats.Knockdowns = optionalInt(raw)
	case "sig_str_landed":
		stats.SigStrLanded = optionalInt(raw)
	case "sig_str_attempted":
		stats.SigStrAttempted = optionalInt(raw)
	case "sig_str_pct":
		stats.SigStrPct = optionalFloat(raw)
	case "total_str_landed":
		stats.TotalStrLanded = optionalInt(raw)
	case "total_str_attempted":
		stats.TotalStrAttempted = optionalInt(raw)
	case "td_landed":
		stats.TakedownsLanded = optionalInt(raw)
	case "td_attempted":
		stats.TakedownsAttempted = optionalInt(raw)
	case "td_pct":
		stats.TakedownPct = optionalFloat(raw)
	case "sub_attempts":
		stats.SubAttempts = optionalInt(raw)
	case "reversals":
		stats.Reversals = optionalInt(raw)
	case "control_time":
		seconds := controlSeconds(raw)
		stats.ControlTimeSeconds = &seconds
	case "head_landed":
		stats.HeadLanded = optionalInt(raw)
	case "head_attempted":
		stats.HeadAttempted = optionalInt(raw)
	case "body_landed":
		stats.BodyLanded = optionalInt(raw)
	case "body_attempted":
		stats.BodyAttempted = optionalInt(raw)
	case "leg_landed":
		stats.LegLanded = optionalInt(raw)
	case "leg_attempted":
		stats.LegAttempted = optionalInt(raw)
	case "distance_landed":
		stats.DistanceLanded = optionalInt(raw)
	case "distance_attempted":
		stats.DistanceAttempted = optionalInt(raw)
	case "clinch_landed":
		stats.ClinchLanded = optionalInt(raw)
	case "clinch_attempted":
		stats.ClinchAttempted = optionalInt(raw)
	case "ground_landed":
		stats.GroundLanded = optionalInt(raw)
	case "ground_attempted":
		stats.GroundAttempted = optionalInt(raw)
	}
}

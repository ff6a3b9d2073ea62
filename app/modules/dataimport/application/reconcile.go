package importservice

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// Reconciliation classifies each mapped row against the existing
// stores as ready, duplicate, or error before the user triages the
// batch.
//
// Matching is two-tier: id matches are authoritative and checked
// first; name matches are a deliberately loose fallback (exact
// case-insensitive first-token/remaining-tokens comparison, no fuzzy
// distance). The name tier can false-positive on namesakes and
// false-negative on nickname variants; that envelope is accepted, and
// duplicates are resolved by explicit user choice rather than guessed.

// mappedValue returns the raw cell a target field is mapped to, or ""
// when the field is unmapped.
func mappedValue(row map[string]string, mappings []importtypes.FieldMapping, field string) string {
	for _, m := range mappings {
		if m.Status == importtypes.MappingMapped && m.TargetField == field {
			return strings.TrimSpace(row[m.SourceColumn])
		}
	}
	return ""
}

// splitFullName splits a display name into a first token and the
// remaining tokens, mirroring how roster names are stored.
func splitFullName(full string) (first, last string) {
	tokens := strings.Fields(strings.TrimSpace(full))
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], strings.Join(tokens[1:], " ")
}

func matchFighterByName(fighters []fightertypes.FighterRef, first, last string) *fightertypes.FighterRef {
	if first == "" && last == "" {
		return nil
	}
	for i := range fighters {
		if strings.EqualFold(fighters[i].FirstName, first) && strings.EqualFold(fighters[i].LastName, last) {
			return &fighters[i]
		}
	}
	return nil
}

func matchFighterByID(fighters []fightertypes.FighterRef, id string) *fightertypes.FighterRef {
	if id == "" {
		return nil
	}
	for i := range fighters {
		if string(fighters[i].ID) == id {
			return &fighters[i]
		}
	}
	return nil
}

// ReconcileFighterRows classifies fighter roster rows. An id match
// takes precedence over the name pair even when the name cells are
// blank or disagree with the matched record.
func ReconcileFighterRows(
	rows []map[string]string,
	mappings []importtypes.FieldMapping,
	existing []fightertypes.FighterRef,
) []importtypes.ImportRow {
	out := make([]importtypes.ImportRow, 0, len(rows))
	for _, raw := range rows {
		row := importtypes.ImportRow{
			ID:      uuid.NewString(),
			RawData: raw,
		}

		id := mappedValue(raw, mappings, "id")
		first := mappedValue(raw, mappings, "first_name")
		last := mappedValue(raw, mappings, "last_name")

		match := matchFighterByID(existing, id)
		if match == nil {
			match = matchFighterByName(existing, first, last)
		}

		if match != nil {
			row.Status = importtypes.RowDuplicate
			row.StatusMessage = fmt.Sprintf("Matches existing fighter %s", match.FullName())
			row.MatchedExistingID = string(match.ID)
		} else {
			row.Status = importtypes.RowReady
		}
		out = append(out, row)
	}
	return out
}

// ReconcileFightRows classifies fight-history rows. The primary
// fighter must resolve against the roster (hard requirement); the
// opponent is resolved best-effort and never errors the row. Duplicate
// detection prefers an exact fight_id hit, then falls back to a
// composite match on (event date, opponent name, resolved fighter).
func ReconcileFightRows(
	rows []map[string]string,
	mappings []importtypes.FieldMapping,
	fighters []fightertypes.FighterRef,
	fights []fighttypes.FightRef,
) []importtypes.ImportRow {
	out := make([]importtypes.ImportRow, 0, len(rows))
	for _, raw := range rows {
		out = append(out, reconcileFightRow(raw, mappings, fighters, fights))
	}
	return out
}

func reconcileFightRow(
	raw map[string]string,
	mappings []importtypes.FieldMapping,
	fighters []fightertypes.FighterRef,
	fights []fighttypes.FightRef,
) importtypes.ImportRow {
	row := importtypes.ImportRow{
		ID:      uuid.NewString(),
		RawData: raw,
	}

	fighterID := mappedValue(raw, mappings, "fighter_id")
	fighterName := mappedValue(raw, mappings, "fighter_full_name")

	fighter := matchFighterByID(fighters, fighterID)
	if fighter == nil && fighterName != "" {
		first, last := splitFullName(fighterName)
		fighter = matchFighterByName(fighters, first, last)
	}
	if fighter == nil {
		row.Status = importtypes.RowError
		if fighterID != "" {
			row.StatusMessage = fmt.Sprintf("Fighter id %q not found in roster", fighterID)
		} else {
			row.StatusMessage = fmt.Sprintf("Fighter %q not found in roster", fighterName)
		}
		return row
	}
	row.ResolvedFighterID = fighter.ID

	opponentName := mappedValue(raw, mappings, "opponent_full_name")
	if first, last := splitFullName(opponentName); first != "" || last != "" {
		if opponent := matchFighterByName(fighters, first, last); opponent != nil {
			row.MatchedOpponentID = opponent.ID
			row.OpponentLinked = true
		}
	}

	existing := findExistingFight(raw, mappings, fights, fighter.ID.String(), opponentName)
	if existing != nil {
		row.Status = importtypes.RowDuplicate
		row.StatusMessage = fmt.Sprintf("Duplicate of existing fight %s for %s", existing.ID, fighter.FullName())
		row.MatchedExistingID = string(existing.ID)
	} else {
		row.Status = importtypes.RowReady
		row.StatusMessage = fmt.Sprintf("Linked to fighter %s", fighter.FullName())
	}

	if opponentName != "" && !row.OpponentLinked {
		row.StatusMessage += fmt.Sprintf("; opponent %q not found in roster", opponentName)
	}
	return row
}

func findExistingFight(
	raw map[string]string,
	mappings []importtypes.FieldMapping,
	fights []fighttypes.FightRef,
	fighterID string,
	opponentName string,
) *fighttypes.FightRef {
	if fightID := mappedValue(raw, mappings, "fight_id"); fightID != "" {
		for i := range fights {
			if string(fights[i].ID) == fightID {
				return &fights[i]
			}
		}
	}

	eventDate := coerceDate(mappedValue(raw, mappings, "event_date"))
	if eventDate.IsZero() || opponentName == "" {
		return nil
	}
	for i := range fights {
		if string(fights[i].FighterID) != fighterID {
			continue
		}
		if !sameDay(fights[i].EventDate, eventDate) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(fights[i].OpponentName), opponentName) {
			return &fights[i]
		}
	}
	return nil
}

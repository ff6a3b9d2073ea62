package importservice

import (
	"fmt"
	"strings"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// SchemaDescriptor is the static description of one target schema:
// its field identifiers, UI display groups, header aliases, and the
// minimum-required-fields rule. Descriptors are built once and never
// mutated; the mapper and validator receive them as plain arguments so
// the two schemas stay independent and testable in isolation.
type SchemaDescriptor struct {
	Kind   importtypes.SchemaKind
	Fields []string
	Groups []FieldGroup

	// Aliases maps a normalized known abbreviation/synonym to a
	// canonical field name.
	Aliases map[string]string

	// Required lists fields that must be mapped before the session can
	// leave the mapping phase. RequiredAny groups are satisfied by any
	// one member and reported as a single synthetic missing entry.
	Required    []string
	RequiredAny []RequiredAny

	byNormalized map[string]string
}

// FieldGroup is a UI display grouping of schema fields.
type FieldGroup struct {
	Label  string
	Fields []string
}

// RequiredAny is an at-least-one-of requirement reported under a
// synthetic name when no member is mapped.
type RequiredAny struct {
	Name   string
	Fields []string
}

// HasField reports whether name is a canonical field of the schema.
func (d *SchemaDescriptor) HasField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// NormalizeHeader lowercases and strips underscores, spaces, and
// hyphens so "Sig. Str" style variations compare equal.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(s)
}

// SchemaFor returns the descriptor for a schema kind.
func SchemaFor(kind importtypes.SchemaKind) (*SchemaDescriptor, error) {
	switch kind {
	case importtypes.SchemaFighter:
		return FighterSchema(), nil
	case importtypes.SchemaFightRecord:
		return FightRecordSchema(), nil
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
}

// FighterSchema returns the fighter roster target schema.
func FighterSchema() *SchemaDescriptor { return fighterSchema }

// FightRecordSchema returns the fight-history target schema, including
// the generated per-round field block.
func FightRecordSchema() *SchemaDescriptor { return fightRecordSchema }

// FighterIdentifierRequirement is the synthetic missing-field entry
// reported when neither fighter_id nor fighter_full_name is mapped.
const FighterIdentifierRequirement = "fighter_identifier"

// MaxRounds is the deepest per-round stat block a fight record carries.
const MaxRounds = 5

// roundStatSuffixes are the discrete per-round field identifiers,
// emitted once per round as r{n}_{suffix}.
var roundStatSuffixes = []string{
	"kd",
	"sig_str_landed",
	"sig_str_attempted",
	"sig_str_pct",
	"total_str_landed",
	"total_str_attempted",
	"td_landed",
	"td_attempted",
	"td_pct",
	"sub_attempts",
	"reversals",
	"control_time",
	"head_landed",
	"head_attempted",
	"body_landed",
	"body_attempted",
	"leg_landed",
	"leg_attempted",
	"distance_landed",
	"distance_attempted",
	"clinch_landed",
	"clinch_attempted",
	"ground_landed",
	"ground_attempted",
}

// combinedStatSuffixes may substitute for several discrete fields of
// the same round.
var combinedStatSuffixes = []string{
	"sig_str",
	"landed_by_target",
	"landed_by_position",
}

func roundField(round int, suffix string) string {
	return fmt.Sprintf("r%d_%s", round, suffix)
}

var fighterSchema = newSchemaDescriptor(
	importtypes.SchemaFighter,
	[]FieldGroup{
		{Label: "Identity", Fields: []string{
			"id", "first_name", "last_name", "nickname", "dob", "nationality", "gender",
		}},
		{Label: "Division", Fields: []string{
			"org", "weight_class", "stance", "gym", "coach", "team",
		}},
		{Label: "Physical", Fields: []string{
			"height_cm", "reach_cm", "leg_reach_cm",
		}},
		{Label: "Record", Fields: []string{
			"wins", "losses", "draws", "no_contests",
			"wins_by_ko", "wins_by_sub", "wins_by_dec",
		}},
		{Label: "Performance", Fields: []string{
			"strikes_landed_per_min", "strikes_absorbed_per_min",
			"striking_accuracy_pct", "striking_defense_pct",
			"takedown_avg", "takedown_accuracy_pct", "takedown_defense_pct",
			"submission_avg", "win_streak", "loss_streak",
		}},
		{Label: "Status", Fields: []string{
			"active", "ranked", "rank", "verified",
		}},
	},
	map[string]string{
		"fighterid":   "id",
		"fname":       "first_name",
		"givenname":   "first_name",
		"lname":       "last_name",
		"surname":     "last_name",
		"dateofbirth": "dob",
		"birthdate":   "dob",
		"born":        "dob",
		"country":     "nationality",
		"promotion":   "org",
		"organization": "org",
		"division":    "weight_class",
		"height":      "height_cm",
		"reach":       "reach_cm",
		"legreach":    "leg_reach_cm",
		"kowins":      "wins_by_ko",
		"subwins":     "wins_by_sub",
		"decwins":     "wins_by_dec",
		"nc":          "no_contests",
		"slpm":        "strikes_landed_per_min",
		"sapm":        "strikes_absorbed_per_min",
		"sigstracc":   "striking_accuracy_pct",
		"stracc":      "striking_accuracy_pct",
		"sigstrdef":   "striking_defense_pct",
		"strdef":      "striking_defense_pct",
		"tdavg":       "takedown_avg",
		"tdacc":       "takedown_accuracy_pct",
		"tddef":       "takedown_defense_pct",
		"subavg":      "submission_avg",
	},
	[]string{"first_name", "last_name"},
	nil,
)

var fightRecordSchema = newSchemaDescriptor(
	importtypes.SchemaFightRecord,
	[]FieldGroup{
		{Label: "Identifiers", Fields: []string{
			"fight_id", "fighter_id", "fighter_full_name",
			"opponent_id", "opponent_full_name",
		}},
		{Label: "Event", Fields: []string{
			"event_name", "event_date", "event_org", "location",
		}},
		{Label: "Outcome", Fields: []string{
			"result", "method", "method_detail", "round", "time",
			"weight_class", "bout_type", "title_fight", "title_fight_detail",
			"referee", "scheduled_rounds",
		}},
		{Label: "Fight Stats", Fields: []string{
			"knockdowns", "sig_str_landed", "sig_str_attempted", "sig_str_pct",
			"total_str_landed", "total_str_attempted",
			"td_landed", "td_attempted", "td_pct",
			"sub_attempts", "reversals", "control_time",
		}},
		perRoundGroup(),
	},
	map[string]string{
		"kd":          "knockdowns",
		"fighter":     "fighter_full_name",
		"fightername": "fighter_full_name",
		"opponent":    "opponent_full_name",
		"opponentname": "opponent_full_name",
		"event":       "event_name",
		"date":        "event_date",
		"promotion":   "event_org",
		"outcome":     "result",
		"finish":      "method",
		"finishdetail": "method_detail",
		"endinground": "round",
		"endingtime":  "time",
		"division":    "weight_class",
		"titlebout":   "title_fight",
		"ref":         "referee",
		"ctrl":        "control_time",
		"ctrltime":    "control_time",
		"subatt":      "sub_attempts",
		"rev":         "reversals",
		"tds":         "td_landed",
	},
	[]string{"opponent_full_name", "event_name", "result"},
	[]RequiredAny{
		{Name: FighterIdentifierRequirement, Fields: []string{"fighter_id", "fighter_full_name"}},
	},
)

// perRoundGroup generates the r1..r5 field block: the discrete stat
// fields plus the three combined identifiers per round.
func perRoundGroup() FieldGroup {
	var fields []string
	for r := 1; r <= MaxRounds; r++ {
		for _, suffix := range roundStatSuffixes {
			fields = append(fields, roundField(r, suffix))
		}
		for _, suffix := range combinedStatSuffixes {
			fields = append(fields, roundField(r, suffix))
		}
	}
	return FieldGroup{Label: "Per-Round Stats", Fields: fields}
}

func newSchemaDescriptor(
	kind importtypes.SchemaKind,
	groups []FieldGroup,
	aliases map[string]string,
	required []string,
	requiredAny []RequiredAny,
) *SchemaDescriptor {
	d := &SchemaDescriptor{
		Kind:         kind,
		Groups:       groups,
		Aliases:      aliases,
		Required:     required,
		RequiredAny:  requiredAny,
		byNormalized: make(map[string]string),
	}
	for _, g := range groups {
		for _, f := range g.Fields {
			d.Fields = append(d.Fields, f)
			d.byNormalized[NormalizeHeader(f)] = f
		}
	}
	return d
}

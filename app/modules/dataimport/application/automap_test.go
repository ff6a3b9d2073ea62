package importservice

import (
	"testing"

	"github.com/stretchr/testify/require"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

func TestAutoMap_ExactAndNormalized(t *testing.T) {
	schema := FighterSchema()
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "exact", header: "first_name", want: "first_name"},
		{name: "case insensitive", header: "First_Name", want: "first_name"},
		{name: "spaces", header: "First Name", want: "first_name"},
		{name: "hyphens", header: "first-name", want: "first_name"},
		{name: "mixed separators", header: "Weight Class", want: "weight_class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mappings := AutoMap([]string{tt.header}, schema)
			require.Len(t, mappings, 1)
			require.Equal(t, importtypes.MappingMapped, mappings[0].Status)
			require.Equal(t, tt.want, mappings[0].TargetField)
		})
	}
}

func TestAutoMap_Aliases(t *testing.T) {
	tests := []struct {
		name   string
		schema *SchemaDescriptor
		header string
		want   string
	}{
		{name: "slpm", schema: FighterSchema(), header: "SLpM", want: "strikes_landed_per_min"},
		{name: "date of birth", schema: FighterSchema(), header: "Date of Birth", want: "dob"},
		{name: "division", schema: FighterSchema(), header: "Division", want: "weight_class"},
		{name: "kd", schema: FightRecordSchema(), header: "KD", want: "knockdowns"},
		{name: "opponent", schema: FightRecordSchema(), header: "Opponent", want: "opponent_full_name"},
		{name: "event", schema: FightRecordSchema(), header: "Event", want: "event_name"},
		{name: "ctrl", schema: FightRecordSchema(), header: "Ctrl", want: "control_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mappings := AutoMap([]string{tt.header}, tt.schema)
			require.Equal(t, importtypes.MappingMapped, mappings[0].Status)
			require.Equal(t, tt.want, mappings[0].TargetField)
		})
	}
}

func TestAutoMap_SubstringPrefersLongestField(t *testing.T) {
	schema := FightRecordSchema()

	// Both "round" and a couple of longer fields are substrings of this
	// header; the longest normalized field name must win.
	mappings := AutoMap([]string{"Fighter Scheduled Rounds Total"}, schema)
	require.Equal(t, importtypes.MappingMapped, mappings[0].Status)
	require.Equal(t, "scheduled_rounds", mappings[0].TargetField)
}

func TestAutoMap_UnknownHeaderUnmapped(t *testing.T) {
	mappings := AutoMap([]string{"Shoe Size"}, FighterSchema())
	require.Len(t, mappings, 1)
	require.Equal(t, importtypes.MappingUnmapped, mappings[0].Status)
	require.Empty(t, mappings[0].TargetField)
	require.Equal(t, "Shoe Size", mappings[0].SourceColumn)
}

func TestAutoMap_RoundTripEveryField(t *testing.T) {
	// Feeding the schema's own field names back as headers must map
	// every column onto itself for both schemas, including all the
	// generated per-round fields.
	for _, schema := range []*SchemaDescriptor{FighterSchema(), FightRecordSchema()} {
		headers := make([]string, 0)
		for _, group := range schema.Groups {
			headers = append(headers, group.Fields...)
		}

		mappings := AutoMap(headers, schema)
		require.Len(t, mappings, len(headers))
		for i, m := range mappings {
			require.Equal(t, importtypes.MappingMapped, m.Status, "header %q", headers[i])
			require.Equal(t, headers[i], m.TargetField, "header %q", headers[i])
		}
	}
}

func TestAutoMap_PerRoundHeaders(t *testing.T) {
	schema := FightRecordSchema()
	mappings := AutoMap([]string{"R1 Sig Str Landed", "R3 KD", "R5 Control Time"}, schema)

	require.Equal(t, "r1_sig_str_landed", mappings[0].TargetField)
	// "R3 KD" normalizes to "r3kd" which is exactly r3_kd normalized.
	require.Equal(t, "r3_kd", mappings[1].TargetField)
	require.Equal(t, "r5_control_time", mappings[2].TargetField)
}

func TestValidateMapping_Fighter(t *testing.T) {
	schema := FighterSchema()

	t.Run("valid when both names mapped", func(t *testing.T) {
		v := ValidateMapping(AutoMap([]string{"first_name", "last_name"}, schema), schema)
		require.True(t, v.IsValid)
		require.Empty(t, v.MissingFields)
	})

	t.Run("missing last name", func(t *testing.T) {
		v := ValidateMapping(AutoMap([]string{"first_name", "wins"}, schema), schema)
		require.False(t, v.IsValid)
		require.Equal(t, []string{"last_name"}, v.MissingFields)
	})

	t.Run("ignored column does not satisfy", func(t *testing.T) {
		mappings := AutoMap([]string{"first_name", "last_name"}, schema)
		mappings[1].Status = importtypes.MappingIgnored
		mappings[1].TargetField = ""
		v := ValidateMapping(mappings, schema)
		require.False(t, v.IsValid)
		require.Contains(t, v.MissingFields, "last_name")
	})
}

func TestValidateMapping_FightRecord(t *testing.T) {
	schema := FightRecordSchema()

	t.Run("fighter_id satisfies the identifier requirement", func(t *testing.T) {
		headers := []string{"fighter_id", "opponent_full_name", "event_name", "result"}
		v := ValidateMapping(AutoMap(headers, schema), schema)
		require.True(t, v.IsValid)
	})

	t.Run("fighter_full_name also satisfies it", func(t *testing.T) {
		headers := []string{"fighter_full_name", "opponent_full_name", "event_name", "result"}
		v := ValidateMapping(AutoMap(headers, schema), schema)
		require.True(t, v.IsValid)
	})

	t.Run("neither identifier mapped", func(t *testing.T) {
		headers := []string{"opponent_full_name", "event_name", "result"}
		v := ValidateMapping(AutoMap(headers, schema), schema)
		require.False(t, v.IsValid)
		require.Contains(t, v.MissingFields, FighterIdentifierRequirement)
	})

	t.Run("missing result reported alongside identifier", func(t *testing.T) {
		headers := []string{"opponent_full_name", "event_name"}
		v := ValidateMapping(AutoMap(headers, schema), schema)
		require.False(t, v.IsValid)
		require.Contains(t, v.MissingFields, "result")
		require.Contains(t, v.MissingFields, FighterIdentifierRequirement)
	})
}

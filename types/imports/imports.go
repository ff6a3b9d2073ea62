package importtypes

import sharedtypes "github.com/cagepicks/cagepicks-backend/types/shared"

// SchemaKind selects which target schema an import session is bound to.
type SchemaKind string

const (
	SchemaFighter     SchemaKind = "fighter"
	SchemaFightRecord SchemaKind = "fight_record"
)

// MappingStatus is the state of one source-column mapping.
type MappingStatus string

const (
	MappingMapped   MappingStatus = "mapped"
	MappingUnmapped MappingStatus = "unmapped"
	MappingIgnored  MappingStatus = "ignored"
)

// FieldMapping assigns one source column to a target schema field.
// Invariant: Status == MappingMapped iff TargetField != "".
type FieldMapping struct {
	SourceColumn string        `json:"source_column"`
	TargetField  string        `json:"target_field,omitempty"`
	Status       MappingStatus `json:"status"`
}

// RowStatus is the triage classification of one parsed row.
type RowStatus string

const (
	RowReady     RowStatus = "ready"
	RowDuplicate RowStatus = "duplicate"
	RowConflict  RowStatus = "conflict"
	RowError     RowStatus = "error"
)

// RowAction is an explicit user triage decision carried on a row.
type RowAction string

// RowActionReplace marks a duplicate row for replacement of the
// matched existing record on commit.
const RowActionReplace RowAction = "replace"

// ImportRow is one parsed spreadsheet row plus its reconciliation
// outcome. It lives only for the duration of an import session.
type ImportRow struct {
	ID            string            `json:"id"`
	RawData       map[string]string `json:"raw_data"`
	Status        RowStatus         `json:"status"`
	StatusMessage string            `json:"status_message,omitempty"`

	// MatchedExistingID is the existing record this row duplicates,
	// when Status == RowDuplicate.
	MatchedExistingID string `json:"matched_existing_id,omitempty"`

	// Fight-history reconciliation results. ResolvedFighterID is the
	// roster id of the primary fighter; opponent linkage is best-effort.
	ResolvedFighterID sharedtypes.FighterID `json:"resolved_fighter_id,omitempty"`
	MatchedOpponentID sharedtypes.FighterID `json:"matched_opponent_id,omitempty"`
	OpponentLinked    bool                  `json:"opponent_linked,omitempty"`

	Action RowAction `json:"action,omitempty"`
}

// ParsedTable is the parser output: an ordered header row and
// string-keyed data rows. TruncatedRows counts rows that carried more
// values than headers (extras are dropped, not fatal).
type ParsedTable struct {
	Headers       []string
	Rows          []map[string]string
	TruncatedRows int
}

// SessionState is the orchestrator phase.
type SessionState string

const (
	StateUpload   SessionState = "upload"
	StateMapping  SessionState = "mapping"
	StatePreview  SessionState = "preview"
	StateComplete SessionState = "complete"
)

// TriageCounts are the aggregate per-status counts surfaced to the UI.
type TriageCounts struct {
	Ready     int `json:"ready"`
	Duplicate int `json:"duplicate"`
	Conflict  int `json:"conflict"`
	Error     int `json:"error"`
	Skipped   int `json:"skipped"`
	Replacing int `json:"replacing"`
}

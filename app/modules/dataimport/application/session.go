package importservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application/parsers"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	fighttypes "github.com/cagepicks/cagepicks-backend/types/fight"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"

	"log/slog"
)

// Status messages applied by user triage actions.
const (
	skippedByUserMessage = "Skipped by user"
	willReplaceMessage   = "Will replace existing data"
)

// ErrCommitInFlight is returned when a commit is requested while a
// previous one has not finished. One commit per session at a time.
var ErrCommitInFlight = errors.New("a commit is already in flight for this session")

// ImportSession drives the four-phase import workflow:
// upload -> mapping -> preview -> complete, with explicit
// back-transitions mapping -> upload (clear file) and
// preview -> mapping (cancel). No skip-ahead transitions exist.
//
// The session owns its field mappings and import rows for its
// lifetime; committed records are handed to the stores and no longer
// owned by the pipeline.
type ImportSession struct {
	mu sync.Mutex

	id         string
	schemaKind importtypes.SchemaKind
	schema     *SchemaDescriptor
	state      importtypes.SessionState

	fileName string
	table    *importtypes.ParsedTable
	mappings []importtypes.FieldMapping
	rows     []importtypes.ImportRow

	committing bool

	fighterStore FighterStore
	fightStore   FightStore
	transformer  *Transformer
	factory      *parsers.Factory
	logger       *slog.Logger
}

// NewImportSession creates a session bound to one target schema.
func NewImportSession(
	kind importtypes.SchemaKind,
	fighterStore FighterStore,
	fightStore FightStore,
	logger *slog.Logger,
) (*ImportSession, error) {
	schema, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	return &ImportSession{
		id:           uuid.NewString(),
		schemaKind:   kind,
		schema:       schema,
		state:        importtypes.StateUpload,
		fighterStore: fighterStore,
		fightStore:   fightStore,
		transformer:  NewTransformer(logger),
		factory:      parsers.NewFactory(),
		logger:       logger,
	}, nil
}

// ID returns the session id.
func (s *ImportSession) ID() string { return s.id }

// SchemaKind returns the target schema of the session.
func (s *ImportSession) SchemaKind() importtypes.SchemaKind { return s.schemaKind }

// State returns the current phase.
func (s *ImportSession) State() importtypes.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UploadFile parses the uploaded file and proposes an automatic
// mapping, advancing upload -> mapping.
func (s *ImportSession) UploadFile(ctx context.Context, fileName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StateUpload {
		return fmt.Errorf("cannot upload a file in state %q", s.state)
	}

	parser, err := s.factory.GetParser(fileName)
	if err != nil {
		return err
	}
	table, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", fileName, err)
	}

	s.fileName = fileName
	s.table = table
	s.mappings = AutoMap(table.Headers, s.schema)
	s.state = importtypes.StateMapping

	if table.TruncatedRows > 0 {
		s.logger.WarnContext(ctx, "Rows had more values than headers; extras dropped",
			attr.String("session_id", s.id),
			attr.Int("truncated_rows", table.TruncatedRows),
		)
	}
	s.logger.InfoContext(ctx, "File uploaded and auto-mapped",
		attr.String("session_id", s.id),
		attr.String("file_name", fileName),
		attr.Int("columns", len(table.Headers)),
		attr.Int("rows", len(table.Rows)),
	)
	return nil
}

// ClearFile discards the uploaded file, returning mapping -> upload.
func (s *ImportSession) ClearFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StateMapping {
		return fmt.Errorf("cannot clear the file in state %q", s.state)
	}
	s.fileName = ""
	s.table = nil
	s.mappings = nil
	s.state = importtypes.StateUpload
	return nil
}

// Mappings returns a copy of the current field mappings.
func (s *ImportSession) Mappings() []importtypes.FieldMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]importtypes.FieldMapping, len(s.mappings))
	copy(out, s.mappings)
	return out
}

// SetMapping points a source column at a target field, or ignores the
// column when targetField is empty. Mappings are only editable during
// the mapping phase.
func (s *ImportSession) SetMapping(sourceColumn, targetField string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StateMapping {
		return fmt.Errorf("cannot edit mappings in state %q", s.state)
	}
	if targetField != "" && !s.schema.HasField(targetField) {
		return fmt.Errorf("unknown target field %q for schema %q", targetField, s.schemaKind)
	}

	for i := range s.mappings {
		if s.mappings[i].SourceColumn != sourceColumn {
			continue
		}
		if targetField == "" {
			s.mappings[i].TargetField = ""
			s.mappings[i].Status = importtypes.MappingIgnored
		} else {
			s.mappings[i].TargetField = targetField
			s.mappings[i].Status = importtypes.MappingMapped
		}
		return nil
	}
	return fmt.Errorf("unknown source column %q", sourceColumn)
}

// ConfirmMapping validates the mapping and, when valid, reconciles
// every row against the existing stores and advances
// mapping -> preview. An invalid mapping blocks the transition and
// reports the missing fields.
func (s *ImportSession) ConfirmMapping(ctx context.Context) (MappingValidation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StateMapping {
		return MappingValidation{}, fmt.Errorf("cannot confirm mappings in state %q", s.state)
	}

	validation := ValidateMapping(s.mappings, s.schema)
	if !validation.IsValid {
		return validation, nil
	}

	fighters, err := s.fighterStore.List(ctx)
	if err != nil {
		return validation, fmt.Errorf("failed to list fighters: %w", err)
	}

	switch s.schemaKind {
	case importtypes.SchemaFighter:
		s.rows = ReconcileFighterRows(s.table.Rows, s.mappings, fighters)
	case importtypes.SchemaFightRecord:
		fights, err := s.fightStore.List(ctx)
		if err != nil {
			return validation, fmt.Errorf("failed to list fight records: %w", err)
		}
		s.rows = ReconcileFightRows(s.table.Rows, s.mappings, fighters, fights)
	}

	s.state = importtypes.StatePreview
	return validation, nil
}

// CancelPreview discards triage results, returning preview -> mapping.
func (s *ImportSession) CancelPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StatePreview {
		return fmt.Errorf("cannot cancel preview in state %q", s.state)
	}
	if s.committing {
		return ErrCommitInFlight
	}
	s.rows = nil
	s.state = importtypes.StateMapping
	return nil
}

// Rows returns a copy of the triaged rows.
func (s *ImportSession) Rows() []importtypes.ImportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]importtypes.ImportRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// SkipRow excludes a row from commit: status becomes error with a
// "skipped by user" message.
func (s *ImportSession) SkipRow(rowID string) error {
	return s.triage(rowID, func(row *importtypes.ImportRow) {
		row.Status = importtypes.RowError
		row.StatusMessage = skippedByUserMessage
		row.Action = ""
	})
}

// ReplaceRow marks a duplicate row to replace the matched existing
// record on commit.
func (s *ImportSession) ReplaceRow(rowID string) error {
	return s.triage(rowID, func(row *importtypes.ImportRow) {
		row.Status = importtypes.RowReady
		row.StatusMessage = willReplaceMessage
		row.Action = importtypes.RowActionReplace
	})
}

func (s *ImportSession) triage(rowID string, apply func(*importtypes.ImportRow)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != importtypes.StatePreview {
		return fmt.Errorf("cannot triage rows in state %q", s.state)
	}
	if s.committing {
		return ErrCommitInFlight
	}
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			apply(&s.rows[i])
			return nil
		}
	}
	return fmt.Errorf("unknown row %q", rowID)
}

// Counts returns the aggregate triage counts for the UI.
func (s *ImportSession) Counts() importtypes.TriageCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countRows(s.rows)
}

func countRows(rows []importtypes.ImportRow) importtypes.TriageCounts {
	var counts importtypes.TriageCounts
	for _, row := range rows {
		switch row.Status {
		case importtypes.RowReady:
			counts.Ready++
		case importtypes.RowDuplicate:
			counts.Duplicate++
		case importtypes.RowConflict:
			counts.Conflict++
		case importtypes.RowError:
			if row.StatusMessage == skippedByUserMessage {
				counts.Skipped++
			} else {
				counts.Error++
			}
		}
		if row.Action == importtypes.RowActionReplace {
			counts.Replacing++
		}
	}
	return counts
}

// CommitResult reports the outcome of a commit. The add and replace
// partitions are committed independently, so their errors are reported
// distinctly; a partial commit keeps the session in preview for
// re-triage and retry.
type CommitResult struct {
	Added    int
	Replaced int
	Dropped  int

	AddErr     error
	ReplaceErr error
}

// Failed reports whether either partition failed.
func (r CommitResult) Failed() bool { return r.AddErr != nil || r.ReplaceErr != nil }

// Commit transforms the ready rows and hands the add and replace
// batches to the store as two separate bulk calls. Only one commit may
// be in flight; a failed commit leaves the session in preview so the
// user can retry.
func (s *ImportSession) Commit(ctx context.Context) (CommitResult, error) {
	s.mu.Lock()
	if s.state != importtypes.StatePreview {
		s.mu.Unlock()
		return CommitResult{}, fmt.Errorf("cannot commit in state %q", s.state)
	}
	if s.committing {
		s.mu.Unlock()
		return CommitResult{}, ErrCommitInFlight
	}
	s.committing = true
	var addRows, replaceRows []importtypes.ImportRow
	for _, row := range s.rows {
		if row.Status != importtypes.RowReady {
			continue
		}
		if row.Action == importtypes.RowActionReplace {
			replaceRows = append(replaceRows, row)
		} else {
			addRows = append(addRows, row)
		}
	}
	mappings := make([]importtypes.FieldMapping, len(s.mappings))
	copy(mappings, s.mappings)
	s.mu.Unlock()

	var result CommitResult
	switch s.schemaKind {
	case importtypes.SchemaFighter:
		result = s.commitFighters(ctx, addRows, replaceRows, mappings)
	case importtypes.SchemaFightRecord:
		result = s.commitFights(ctx, addRows, replaceRows, mappings)
	}

	s.mu.Lock()
	s.committing = false
	if !result.Failed() {
		s.state = importtypes.StateComplete
	}
	s.mu.Unlock()

	if result.Failed() {
		s.logger.ErrorContext(ctx, "Commit failed; session remains in preview",
			attr.String("session_id", s.id),
			attr.Error(errors.Join(result.AddErr, result.ReplaceErr)),
		)
	} else {
		s.logger.InfoContext(ctx, "Import committed",
			attr.String("session_id", s.id),
			attr.Int("added", result.Added),
			attr.Int("replaced", result.Replaced),
			attr.Int("dropped", result.Dropped),
		)
	}
	return result, nil
}

func (s *ImportSession) commitFighters(ctx context.Context, addRows, replaceRows []importtypes.ImportRow, mappings []importtypes.FieldMapping) CommitResult {
	var result CommitResult

	transform := func(rows []importtypes.ImportRow) []*fightertypes.Fighter {
		records := make([]*fightertypes.Fighter, 0, len(rows))
		for _, row := range rows {
			if record := s.transformer.TransformFighter(ctx, row, mappings); record != nil {
				records = append(records, record)
			} else {
				result.Dropped++
			}
		}
		return records
	}

	added := transform(addRows)
	replaced := transform(replaceRows)

	if len(added) > 0 {
		if err := s.fighterStore.AddMany(ctx, added, StoreModeAdd); err != nil {
			result.AddErr = fmt.Errorf("add batch: %w", err)
		} else {
			result.Added = len(added)
		}
	}
	if len(replaced) > 0 {
		if err := s.fighterStore.AddMany(ctx, replaced, StoreModeReplace); err != nil {
			result.ReplaceErr = fmt.Errorf("replace batch: %w", err)
		} else {
			result.Replaced = len(replaced)
		}
	}
	return result
}

func (s *ImportSession) commitFights(ctx context.Context, addRows, replaceRows []importtypes.ImportRow, mappings []importtypes.FieldMapping) CommitResult {
	var result CommitResult

	transform := func(rows []importtypes.ImportRow) []*fighttypes.FightRecord {
		records := make([]*fighttypes.FightRecord, 0, len(rows))
		for _, row := range rows {
			if record := s.transformer.TransformFight(ctx, row, mappings); record != nil {
				records = append(records, record)
			} else {
				result.Dropped++
			}
		}
		return records
	}

	added := transform(addRows)
	replaced := transform(replaceRows)

	if len(added) > 0 {
		if err := s.fightStore.AddMany(ctx, added, StoreModeAdd); err != nil {
			result.AddErr = fmt.Errorf("add batch: %w", err)
		} else {
			result.Added = len(added)
		}
	}
	if len(replaced) > 0 {
		if err := s.fightStore.AddMany(ctx, replaced, StoreModeReplace); err != nil {
			result.ReplaceErr = fmt.Errorf("replace batch: %w", err)
		} else {
			result.Replaced = len(replaced)
		}
	}
	return result
}

// Snapshot is a read-only view of the session for the HTTP layer.
type Snapshot struct {
	ID            string                     `json:"id"`
	SchemaKind    importtypes.SchemaKind     `json:"schema_kind"`
	State         importtypes.SessionState   `json:"state"`
	FileName      string                     `json:"file_name,omitempty"`
	Headers       []string                   `json:"headers,omitempty"`
	RowCount      int                        `json:"row_count"`
	TruncatedRows int                        `json:"truncated_rows,omitempty"`
	Mappings      []importtypes.FieldMapping `json:"mappings,omitempty"`
	Rows          []importtypes.ImportRow    `json:"rows,omitempty"`
	Counts        importtypes.TriageCounts   `json:"counts"`
}

// Snapshot returns the current session view.
func (s *ImportSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		SchemaKind: s.schemaKind,
		State:      s.state,
		FileName:   s.fileName,
		Counts:     countRows(s.rows),
	}
	if s.table != nil {
		snap.Headers = s.table.Headers
		snap.RowCount = len(s.table.Rows)
		snap.TruncatedRows = s.table.TruncatedRows
	}
	snap.Mappings = make([]importtypes.FieldMapping, len(s.mappings))
	copy(snap.Mappings, s.mappings)
	snap.Rows = make([]importtypes.ImportRow, len(s.rows))
	copy(snap.Rows, s.rows)
	return snap
}

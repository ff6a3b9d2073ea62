package importservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fightertypes "github.com/cagepicks/cagepicks-backend/types/fighter"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

func newTestSession(t *testing.T, kind importtypes.SchemaKind, fighters FighterStore, fights *fakeFightStore) *ImportSession {
	t.Helper()
	if fighters == nil {
		fighters = &fakeFighterStore{}
	}
	if fights == nil {
		fights = &fakeFightStore{}
	}
	session, err := NewImportSession(kind, fighters, fights, testLogger())
	require.NoError(t, err)
	return session
}

func uploadFighterCSV(t *testing.T, session *ImportSession, csv string) {
	t.Helper()
	require.NoError(t, session.UploadFile(context.Background(), "roster.csv", []byte(csv)))
}

func TestImportSession_HappyPath(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)

	require.Equal(t, importtypes.StateUpload, session.State())

	uploadFighterCSV(t, session, "First Name,Last Name,Wins,Losses\nJon,Jones,28,1\nAmanda,Nunes,23,5")
	require.Equal(t, importtypes.StateMapping, session.State())

	// The auto-mapper should have mapped every column.
	for _, m := range session.Mappings() {
		require.Equal(t, importtypes.MappingMapped, m.Status, "column %q", m.SourceColumn)
	}

	validation, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)
	require.True(t, validation.IsValid)
	require.Equal(t, importtypes.StatePreview, session.State())

	counts := session.Counts()
	require.Equal(t, 2, counts.Ready)

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Equal(t, 2, result.Added)
	require.Zero(t, result.Replaced)
	require.Equal(t, importtypes.StateComplete, session.State())

	require.Len(t, fighters.added, 2)
	require.Equal(t, "Jon Jones", fighters.added[0].FullName())
	require.Equal(t, 28, fighters.added[0].Record.Wins)
	require.Equal(t, 1, fighters.added[0].Record.Losses)
	require.Equal(t, 23, fighters.added[1].Record.Wins)
}

func TestImportSession_TransitionGuards(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, importtypes.SchemaFighter, nil, nil)

	// Nothing but upload works from the upload state.
	_, err := session.ConfirmMapping(ctx)
	require.Error(t, err)
	require.Error(t, session.ClearFile())
	require.Error(t, session.SetMapping("a", "wins"))
	require.Error(t, session.CancelPreview())
	_, err = session.Commit(ctx)
	require.Error(t, err)

	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones")

	// A second upload without clearing is rejected.
	require.Error(t, session.UploadFile(ctx, "again.csv", []byte("a,b\n1,2")))

	// Clearing returns to upload and drops the table.
	require.NoError(t, session.ClearFile())
	require.Equal(t, importtypes.StateUpload, session.State())
	require.Empty(t, session.Mappings())

	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones")
	_, err = session.ConfirmMapping(ctx)
	require.NoError(t, err)
	require.Equal(t, importtypes.StatePreview, session.State())

	// Mapping edits are locked once in preview.
	require.Error(t, session.SetMapping("first_name", "nickname"))

	// Cancel steps back to mapping and discards rows.
	require.NoError(t, session.CancelPreview())
	require.Equal(t, importtypes.StateMapping, session.State())
	require.Empty(t, session.Rows())
}

func TestImportSession_SetMapping(t *testing.T) {
	session := newTestSession(t, importtypes.SchemaFighter, nil, nil)
	uploadFighterCSV(t, session, "first_name,last_name,mystery\nJon,Jones,x")

	require.Error(t, session.SetMapping("mystery", "not_a_field"))
	require.Error(t, session.SetMapping("no_such_column", "wins"))

	require.NoError(t, session.SetMapping("mystery", "nickname"))
	mappings := session.Mappings()
	require.Equal(t, "nickname", mappings[2].TargetField)
	require.Equal(t, importtypes.MappingMapped, mappings[2].Status)

	// Empty target ignores the column.
	require.NoError(t, session.SetMapping("mystery", ""))
	mappings = session.Mappings()
	require.Empty(t, mappings[2].TargetField)
	require.Equal(t, importtypes.MappingIgnored, mappings[2].Status)
}

func TestImportSession_InvalidMappingBlocksPreview(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, importtypes.SchemaFighter, nil, nil)
	uploadFighterCSV(t, session, "first_name,wins\nJon,28")

	validation, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)
	require.False(t, validation.IsValid)
	require.Contains(t, validation.MissingFields, "last_name")
	// No transition happened.
	require.Equal(t, importtypes.StateMapping, session.State())
}

func TestImportSession_Triage(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{
		refs: []fightertypes.FighterRef{{ID: "f-1", FirstName: "Jon", LastName: "Jones"}},
	}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones\nAlex,Pereira")

	_, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)

	rows := session.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, importtypes.RowDuplicate, rows[0].Status)
	require.Equal(t, importtypes.RowReady, rows[1].Status)

	counts := session.Counts()
	require.Equal(t, 1, counts.Ready)
	require.Equal(t, 1, counts.Duplicate)

	// Replace the duplicate, skip the ready row.
	require.NoError(t, session.ReplaceRow(rows[0].ID))
	require.NoError(t, session.SkipRow(rows[1].ID))
	require.Error(t, session.SkipRow("no-such-row"))

	counts = session.Counts()
	require.Equal(t, 1, counts.Ready)
	require.Equal(t, 1, counts.Replacing)
	require.Equal(t, 1, counts.Skipped)
	require.Zero(t, counts.Error)

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Zero(t, result.Added)
	require.Equal(t, 1, result.Replaced)

	require.Empty(t, fighters.added)
	require.Len(t, fighters.replaced, 1)
	require.Equal(t, "Jon Jones", fighters.replaced[0].FullName())
	// The replacement targets the matched roster row, not a fresh id.
	require.Equal(t, "f-1", string(fighters.replaced[0].ID))
}

// blockingFighterStore parks AddMany until released so a test can
// observe the session mid-commit.
type blockingFighterStore struct {
	fakeFighterStore
	entered chan struct{}
	release chan struct{}
}

func (f *blockingFighterStore) AddMany(ctx context.Context, fighters []*fightertypes.Fighter, mode StoreMode) error {
	f.entered <- struct{}{}
	<-f.release
	return f.fakeFighterStore.AddMany(ctx, fighters, mode)
}

func TestImportSession_SingleCommitInFlight(t *testing.T) {
	ctx := context.Background()
	store := &blockingFighterStore{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	session := newTestSession(t, importtypes.SchemaFighter, store, nil)
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones")

	_, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)
	rows := session.Rows()

	var (
		firstResult CommitResult
		firstErr    error
		done        = make(chan struct{})
	)
	go func() {
		firstResult, firstErr = session.Commit(ctx)
		close(done)
	}()

	// The first commit is now parked inside the store call with the
	// busy flag held.
	<-store.entered

	_, err = session.Commit(ctx)
	require.ErrorIs(t, err, ErrCommitInFlight)
	require.ErrorIs(t, session.SkipRow(rows[0].ID), ErrCommitInFlight)
	require.ErrorIs(t, session.CancelPreview(), ErrCommitInFlight)

	close(store.release)
	<-done
	require.NoError(t, firstErr)
	require.False(t, firstResult.Failed())
	require.Equal(t, 1, firstResult.Added)
	require.Equal(t, importtypes.StateComplete, session.State())
}

func TestImportSession_CommitFailureStaysInPreview(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{addErr: errors.New("insert failed")}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones")

	_, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.True(t, result.Failed())
	require.Error(t, result.AddErr)
	require.NoError(t, result.ReplaceErr)
	require.Equal(t, importtypes.StatePreview, session.State())

	// The failure is retryable once the store recovers.
	fighters.addErr = nil
	result, err = session.Commit(ctx)
	require.NoError(t, err)
	require.False(t, result.Failed())
	require.Equal(t, 1, result.Added)
	require.Equal(t, importtypes.StateComplete, session.State())
}

func TestImportSession_PartialCommitReportsBothPartitions(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{
		refs:       []fightertypes.FighterRef{{ID: "f-1", FirstName: "Jon", LastName: "Jones"}},
		replaceErr: errors.New("upsert failed"),
	}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones\nAlex,Pereira")

	_, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)

	rows := session.Rows()
	require.NoError(t, session.ReplaceRow(rows[0].ID))

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.True(t, result.Failed())
	// The add partition landed even though the replace one failed.
	require.Equal(t, 1, result.Added)
	require.NoError(t, result.AddErr)
	require.Error(t, result.ReplaceErr)
	require.Equal(t, importtypes.StatePreview, session.State())
}

func TestImportSession_DroppedRowsCounted(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)
	// Second row has no last name; it survives reconciliation but the
	// transformer drops it at commit.
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones\nAlex,")

	_, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Added)
	require.Equal(t, 1, result.Dropped)
	require.Len(t, fighters.added, 1)
}

func TestImportSession_FightRecordFlow(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{
		refs: []fightertypes.FighterRef{{ID: "f-1", FirstName: "Jon", LastName: "Jones"}},
	}
	fights := &fakeFightStore{}
	session := newTestSession(t, importtypes.SchemaFightRecord, fighters, fights)

	csv := "Fighter,Opponent,Event,Date,Result\n" +
		"Jon Jones,Ciryl Gane,UFC 285,2023-03-04,W\n" +
		"Nobody Here,Jon Jones,UFC 1,1993-11-12,L"
	require.NoError(t, session.UploadFile(ctx, "fights.csv", []byte(csv)))

	validation, err := session.ConfirmMapping(ctx)
	require.NoError(t, err)
	require.True(t, validation.IsValid)

	rows := session.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, importtypes.RowReady, rows[0].Status)
	require.Equal(t, importtypes.RowError, rows[1].Status)

	result, err := session.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Added)
	require.Len(t, fights.added, 1)
	require.Equal(t, "f-1", string(fights.added[0].FighterID))
	require.Equal(t, "Ciryl Gane", fights.added[0].OpponentName)
}

func TestImportSession_ListErrorSurfaced(t *testing.T) {
	ctx := context.Background()
	fighters := &fakeFighterStore{listErr: errors.New("db down")}
	session := newTestSession(t, importtypes.SchemaFighter, fighters, nil)
	uploadFighterCSV(t, session, "first_name,last_name\nJon,Jones")

	_, err := session.ConfirmMapping(ctx)
	require.Error(t, err)
	require.Equal(t, importtypes.StateMapping, session.State())
}

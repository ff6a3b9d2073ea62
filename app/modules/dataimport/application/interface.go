package importservice

import (
	"context"

	"github.com/cagepicks/cagepicks-backend/internal/results"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// ImportOperationResult is the envelope every service operation
// returns. Failure carries client-facing problems (bad state
// transition, invalid mapping, unknown session); the error return is
// reserved for infrastructure faults.
type ImportOperationResult = results.OperationResult[any, error]

// Service defines the import workflow operations exposed to the
// transport layer.
type Service interface {
	StartSession(ctx context.Context, kind importtypes.SchemaKind) (ImportOperationResult, error)
	GetSession(ctx context.Context, sessionID string) (ImportOperationResult, error)
	UploadFile(ctx context.Context, sessionID, fileName string, data []byte) (ImportOperationResult, error)
	ClearFile(ctx context.Context, sessionID string) (ImportOperationResult, error)
	SetMapping(ctx context.Context, sessionID, sourceColumn, targetField string) (ImportOperationResult, error)
	ConfirmMapping(ctx context.Context, sessionID string) (ImportOperationResult, error)
	CancelPreview(ctx context.Context, sessionID string) (ImportOperationResult, error)
	SkipRow(ctx context.Context, sessionID, rowID string) (ImportOperationResult, error)
	ReplaceRow(ctx context.Context, sessionID, rowID string) (ImportOperationResult, error)
	Commit(ctx context.Context, sessionID string) (ImportOperationResult, error)
}

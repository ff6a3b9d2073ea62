package importservice

import importtypes "github.com/cagepicks/cagepicks-backend/types/imports"

// Event topics published by the import service.
const (
	TopicSessionCommitted    = "import.session.committed"
	TopicSessionCommitFailed = "import.session.failed"
)

// SessionCommittedPayload announces a completed commit so downstream
// consumers (search indexing, cache invalidation) can react.
type SessionCommittedPayload struct {
	SessionID  string                 `json:"session_id"`
	SchemaKind importtypes.SchemaKind `json:"schema_kind"`
	Added      int                    `json:"added"`
	Replaced   int                    `json:"replaced"`
	Dropped    int                    `json:"dropped"`
}

// SessionCommitFailedPayload announces a failed commit. The session
// stays in preview; the admin can retry after fixing the cause.
type SessionCommitFailedPayload struct {
	SessionID  string                 `json:"session_id"`
	SchemaKind importtypes.SchemaKind `json:"schema_kind"`
	Reason     string                 `json:"reason"`
}

package importservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cagepicks/cagepicks-backend/internal/eventbus"
	"github.com/cagepicks/cagepicks-backend/internal/observability"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("import session not found")

// ImportService implements the Service interface. It keeps active
// sessions in memory; sessions are short-lived admin workflows and do
// not survive a process restart.
type ImportService struct {
	mu       sync.RWMutex
	sessions map[string]*ImportSession

	fighterStore FighterStore
	fightStore   FightStore
	publisher    eventbus.EventBus
	logger       *slog.Logger
	metrics      observability.ImportMetrics
	tracer       trace.Tracer
}

// NewImportService creates a new ImportService.
func NewImportService(
	fighterStore FighterStore,
	fightStore FightStore,
	publisher eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.ImportMetrics,
	tracer trace.Tracer,
) *ImportService {
	return &ImportService{
		sessions:     make(map[string]*ImportSession),
		fighterStore: fighterStore,
		fightStore:   fightStore,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
	}
}

// operationFunc is the signature for service operation functions.
type operationFunc func(ctx context.Context) (ImportOperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and
// panic recovery. This standardizes observability across all service
// methods.
func (s *ImportService) withTelemetry(
	ctx context.Context,
	operationName string,
	sessionID string,
	op operationFunc,
) (result ImportOperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("session_id", sessionID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("session_id", sessionID),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = ImportOperationResult{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.String("operation", operationName),
			attr.String("session_id", sessionID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failure != nil {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.String("operation", operationName),
			attr.String("session_id", sessionID),
			attr.Error(result.Failure),
		)
	} else {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

func (s *ImportService) session(sessionID string) (*ImportSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

// StartSession creates a session bound to the given schema and returns
// its initial snapshot.
func (s *ImportService) StartSession(ctx context.Context, kind importtypes.SchemaKind) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "StartSession", "", func(ctx context.Context) (ImportOperationResult, error) {
		session, err := NewImportSession(kind, s.fighterStore, s.fightStore, s.logger)
		if err != nil {
			return ImportOperationResult{Failure: err}, nil
		}

		s.mu.Lock()
		s.sessions[session.ID()] = session
		s.mu.Unlock()

		s.metrics.RecordSessionStarted(ctx, string(kind))
		s.logger.InfoContext(ctx, "Import session started",
			attr.String("session_id", session.ID()),
			attr.String("schema", string(kind)),
		)
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// GetSession returns the current snapshot of a session.
func (s *ImportService) GetSession(ctx context.Context, sessionID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "GetSession", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// UploadFile parses the uploaded file into the session.
func (s *ImportService) UploadFile(ctx context.Context, sessionID, fileName string, data []byte) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "UploadFile", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.UploadFile(ctx, fileName, data); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// ClearFile discards the uploaded file.
func (s *ImportService) ClearFile(ctx context.Context, sessionID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "ClearFile", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.ClearFile(); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// SetMapping updates one column mapping.
func (s *ImportService) SetMapping(ctx context.Context, sessionID, sourceColumn, targetField string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "SetMapping", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.SetMapping(sourceColumn, targetField); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// ConfirmMappingResult pairs the validation outcome with the resulting
// session snapshot.
type ConfirmMappingResult struct {
	Validation MappingValidation `json:"validation"`
	Session    Snapshot          `json:"session"`
}

// ConfirmMapping validates the mapping and reconciles all rows.
func (s *ImportService) ConfirmMapping(ctx context.Context, sessionID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "ConfirmMapping", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		validation, err := session.ConfirmMapping(ctx)
		if err != nil {
			return ImportOperationResult{}, err
		}
		if !validation.IsValid {
			return ImportOperationResult{Failure: fmt.Errorf("mapping is missing required fields: %v", validation.MissingFields)}, nil
		}

		counts := session.Counts()
		s.metrics.RecordRowsClassified(ctx, "ready", counts.Ready)
		s.metrics.RecordRowsClassified(ctx, "duplicate", counts.Duplicate)
		s.metrics.RecordRowsClassified(ctx, "conflict", counts.Conflict)
		s.metrics.RecordRowsClassified(ctx, "error", counts.Error)

		return ImportOperationResult{Success: ConfirmMappingResult{
			Validation: validation,
			Session:    session.Snapshot(),
		}}, nil
	})
}

// CancelPreview discards the triage results.
func (s *ImportService) CancelPreview(ctx context.Context, sessionID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "CancelPreview", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.CancelPreview(); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// SkipRow excludes one row from commit.
func (s *ImportService) SkipRow(ctx context.Context, sessionID, rowID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "SkipRow", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.SkipRow(rowID); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// ReplaceRow marks one duplicate row for replacement.
func (s *ImportService) ReplaceRow(ctx context.Context, sessionID, rowID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "ReplaceRow", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		if err := session.ReplaceRow(rowID); err != nil {
			return ImportOperationResult{Failure: err}, nil
		}
		return ImportOperationResult{Success: session.Snapshot()}, nil
	})
}

// Commit transforms and persists the ready rows, then publishes a
// lifecycle event with the outcome.
func (s *ImportService) Commit(ctx context.Context, sessionID string) (ImportOperationResult, error) {
	return s.withTelemetry(ctx, "Commit", sessionID, func(ctx context.Context) (ImportOperationResult, error) {
		session, ok := s.session(sessionID)
		if !ok {
			return ImportOperationResult{Failure: ErrSessionNotFound}, nil
		}
		result, err := session.Commit(ctx)
		if err != nil {
			return ImportOperationResult{Failure: err}, nil
		}

		if result.Failed() {
			s.publishCommitFailed(ctx, session, result)
			return ImportOperationResult{Failure: fmt.Errorf("commit failed: %w", errors.Join(result.AddErr, result.ReplaceErr))}, nil
		}

		s.metrics.RecordCommit(ctx, string(session.SchemaKind()), result.Added, result.Replaced)
		s.publishCommitted(ctx, session, result)
		return ImportOperationResult{Success: result}, nil
	})
}

func (s *ImportService) publishCommitted(ctx context.Context, session *ImportSession, result CommitResult) {
	payload := SessionCommittedPayload{
		SessionID:  session.ID(),
		SchemaKind: session.SchemaKind(),
		Added:      result.Added,
		Replaced:   result.Replaced,
		Dropped:    result.Dropped,
	}
	if err := s.publisher.Publish(TopicSessionCommitted, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish commit event",
			attr.String("session_id", session.ID()),
			attr.Error(err),
		)
	}
}

func (s *ImportService) publishCommitFailed(ctx context.Context, session *ImportSession, result CommitResult) {
	payload := SessionCommitFailedPayload{
		SessionID:  session.ID(),
		SchemaKind: session.SchemaKind(),
		Reason:     errors.Join(result.AddErr, result.ReplaceErr).Error(),
	}
	if err := s.publisher.Publish(TopicSessionCommitFailed, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish commit-failed event",
			attr.String("session_id", session.ID()),
			attr.Error(err),
		)
	}
}

package importqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	importservice "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
)

// importQueue is the dedicated River queue for commit jobs.
const importQueue = "imports"

// QueueService schedules and runs asynchronous import commits.
type QueueService interface {
	EnqueueCommit(ctx context.Context, sessionID string) error
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service is the River-backed QueueService. River requires pgx, so the
// service owns its own pool alongside the bun connection the
// repositories use.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates the commit queue on the given DSN.
func NewService(ctx context.Context, dsn string, svc importservice.Service, logger *slog.Logger) (*Service, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewCommitWorker(svc, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			importQueue:        {MaxWorkers: 5}, // Dedicated queue for import commits
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.InfoContext(ctx, "Import commit queue initialized")
	return &Service{client: client, pool: pool, logger: logger}, nil
}

// EnqueueCommit schedules a commit job for the session. Insertion is
// unique by args, so double-submitting the same session does not stack
// a second job.
func (s *Service) EnqueueCommit(ctx context.Context, sessionID string) error {
	_, err := s.client.Insert(ctx, CommitJob{SessionID: sessionID}, &river.InsertOpts{
		Queue: importQueue,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true, // Prevent duplicate commits for the same session
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue commit for session %s: %w", sessionID, err)
	}
	s.logger.InfoContext(ctx, "Commit job enqueued", attr.String("session_id", sessionID))
	return nil
}

// HealthCheck verifies the underlying pool is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Start begins processing jobs.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start queue client: %w", err)
	}
	s.logger.InfoContext(ctx, "Import commit queue started")
	return nil
}

// Stop drains in-flight jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop queue client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Import commit queue stopped")
	return nil
}

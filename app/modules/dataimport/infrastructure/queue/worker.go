package importqueue

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"

	importservice "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
)

// CommitWorker runs queued session commits.
type CommitWorker struct {
	river.WorkerDefaults[CommitJob]
	service importservice.Service
	logger  *slog.Logger
}

// NewCommitWorker creates the worker.
func NewCommitWorker(service importservice.Service, logger *slog.Logger) *CommitWorker {
	return &CommitWorker{service: service, logger: logger}
}

// Work executes the commit. A business failure (session gone, commit
// already in flight, partial store failure) is returned as an error so
// River retries with backoff; the session's busy flag makes a
// concurrent retry a no-op failure rather than a double commit.
func (w *CommitWorker) Work(ctx context.Context, job *river.Job[CommitJob]) error {
	w.logger.InfoContext(ctx, "Running queued import commit",
		attr.String("session_id", job.Args.SessionID),
		attr.Int("attempt", job.Attempt),
	)

	result, err := w.service.Commit(ctx, job.Args.SessionID)
	if err != nil {
		return err
	}
	if result.Failure != nil {
		return result.Failure
	}
	return nil
}

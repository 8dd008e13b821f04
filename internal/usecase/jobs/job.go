package jobs

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Job is one idempotent unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Report struct {
	Scanned   int
	Processed int
	Skipped   int
	Failed    int
}

func (r *Report) add(o Report) {
	r.Scanned += o.Scanned
	r.Processed += o.Processed
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

// isFatal reports errors that abort a whole run instead of one item.
func isFatal(ctx context.Context, err error) bool {
	return errs.Is(err, shared.ErrStorageUnavailable) || ctx.Err() != nil
}

// forEach runs fn for every id in its own transaction. Item failures are
// logged and counted; storage outages and cancellation stop the loop.
func forEach(
	ctx context.Context,
	uow shared.UnitOfWork,
	logger *slog.Logger,
	job string,
	ids []uuid.UUID,
	fn func(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error),
) (Report, error) {
	rep := Report{Scanned: len(ids)}
	for _, id := range ids {
		var done bool
		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var ferr error
			done, ferr = fn(ctx, tx, id)
			return ferr
		})
		switch {
		case err == nil && done:
			rep.Processed++
		case err == nil:
			rep.Skipped++
		case isFatal(ctx, err):
			return rep, err
		default:
			rep.Failed++
			logger.WarnContext(ctx, "job item failed", "job", job, "id", id, "error", err)
		}
	}
	return rep, nil
}

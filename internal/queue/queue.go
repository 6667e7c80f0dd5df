// Package queue carries thumbnail jobs from the upload path to the worker
// pipeline. The transport provides at-least-once delivery; consumers must
// treat redelivered jobs as safe to reprocess.
package queue

import (
	"context"
	"time"

	"github.com/mkravets/filehub/internal/models"
)

// Queue enqueues thumbnail jobs.
type Queue interface {
	Enqueue(ctx context.Context, job *models.ThumbnailJob) error
}

// Consumer delivers enqueued jobs to the worker. Dequeue blocks until a job
// arrives or the timeout elapses; a nil job with nil error means the timeout
// expired and the caller should poll again.
type Consumer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*models.ThumbnailJob, error)
}

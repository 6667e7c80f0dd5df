// Package worker implements the thumbnail pipeline: a pool of consumers
// pulls jobs from the queue and derives fixed-width copies of uploaded
// images. Each job moves through Received -> Validating -> GeneratingSizes
// -> Done/Failed; a validation failure drops the job, a per-width failure
// is isolated and never aborts the remaining widths.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkravets/filehub/internal/blob"
	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/logging"
	"github.com/mkravets/filehub/internal/models"
	"github.com/mkravets/filehub/internal/queue"
	"github.com/mkravets/filehub/internal/repositories/files"
)

// Widths are the derivative target widths, generated independently.
var Widths = []int{500, 250, 100}

// dequeueTimeout bounds each blocking poll so shutdown is noticed promptly.
const dequeueTimeout = 5 * time.Second

var (
	errOwnerMismatch = errors.New("job owner does not match file owner")
	errNotAnImage    = errors.New("file is not an image")
)

// Pipeline consumes thumbnail jobs and writes derivatives to blob storage.
type Pipeline struct {
	consumer    queue.Consumer
	files       files.Repository
	blobs       blob.Store
	logger      logging.Logger
	concurrency int
}

func NewPipeline(consumer queue.Consumer, f files.Repository, blobs blob.Store, logger logging.Logger, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		consumer:    consumer,
		files:       f,
		blobs:       blobs,
		logger:      logger.With("module", "thumbnail_worker"),
		concurrency: concurrency,
	}
}

// Run starts the consumer pool and blocks until ctx is cancelled and every
// in-flight job has finished its per-width attempts.
func (p *Pipeline) Run(ctx context.Context) {
	p.logger.Info(ctx, "starting thumbnail workers", "concurrency", p.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.loop(ctx, id)
		}(i)
	}
	wg.Wait()

	p.logger.Info(ctx, "thumbnail workers stopped")
}

func (p *Pipeline) loop(ctx context.Context, id int) {
	log := p.logger.With("handler", id)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := p.consumer.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error(ctx, "dequeue failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		// In-flight jobs run to completion even during shutdown; only the
		// polling above observes cancellation.
		_ = p.Process(context.WithoutCancel(ctx), job)
	}
}

// Process runs a single job through the pipeline. The returned error is the
// validation failure, if any; generation failures are logged per width and
// never surfaced, so redelivery of a half-done job simply overwrites.
func (p *Pipeline) Process(ctx context.Context, job *models.ThumbnailJob) error {
	log := p.logger.With("file_id", job.FileID)
	log.Info(ctx, "job received")

	file, err := p.validate(ctx, job)
	if err != nil {
		log.Error(ctx, "job failed validation", "error", err)
		return err
	}

	for _, width := range Widths {
		if err := p.generate(ctx, file, width); err != nil {
			log.Error(ctx, "thumbnail generation failed", "width", width, "error", err)
		}
	}

	log.Info(ctx, "job done")
	return nil
}

func (p *Pipeline) validate(ctx context.Context, job *models.ThumbnailJob) (*models.File, error) {
	if job.FileID == "" {
		return nil, common.NewMissingFieldError("fileId")
	}
	if job.UserID == "" {
		return nil, common.NewMissingFieldError("userId")
	}

	file, err := p.files.GetByID(ctx, job.FileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != job.UserID {
		return nil, errOwnerMismatch
	}
	if file.Type != models.TypeImage {
		return nil, errNotAnImage
	}
	return file, nil
}

// generate reads the original bytes, resizes them to the target width, and
// writes the derivative under "<key>_<width>", overwriting any prior copy.
func (p *Pipeline) generate(ctx context.Context, file *models.File, width int) error {
	original, err := p.blobs.Read(ctx, file.StorageKey)
	if err != nil {
		return fmt.Errorf("reading original: %w", err)
	}

	thumb, err := Resize(original, width)
	if err != nil {
		return fmt.Errorf("resizing: %w", err)
	}

	key := fmt.Sprintf("%s_%d", file.StorageKey, width)
	if err := p.blobs.Write(ctx, key, thumb); err != nil {
		return fmt.Errorf("writing derivative: %w", err)
	}
	return nil
}

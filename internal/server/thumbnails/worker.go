package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"golang.org/x/sync/errgroup"
)

const consumeBackoff = time.Second

// Worker consumes thumbnail jobs and writes one rendition per configured
// width next to the original blob. Failed jobs are logged and dropped.
type Worker struct {
	files       files.Repository
	blobs       blobstore.Store
	queue       queue.Queue
	concurrency int
	logger      logging.Logger
	resize      func(src []byte, width int) ([]byte, error)
}

func NewWorker(f files.Repository, b blobstore.Store, q queue.Queue, concurrency int, logger logging.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		files:       f,
		blobs:       b,
		queue:       q,
		concurrency: concurrency,
		logger:      logger.With("module", "thumbnails"),
		resize:      Resize,
	}
}

// Process runs a single job and returns its terminal state.
func (w *Worker) Process(ctx context.Context, job models.ThumbnailJob) (models.JobState, error) {
	if job.FileID == "" {
		return models.JobFailed, common.ErrMissingFileID
	}
	if job.UserID == "" {
		return models.JobFailed, common.ErrMissingUserID
	}

	file, err := w.files.GetByOwner(ctx, job.UserID, job.FileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.JobFailed, common.ErrFileRecordNotFound
		}
		return models.JobFailed, fmt.Errorf("load file record: %w", err)
	}
	if file.BlobRef == "" {
		return models.JobFailed, common.ErrFolderHasNoContent
	}

	src, err := w.blobs.Read(ctx, file.BlobRef)
	if err != nil {
		return models.JobFailed, fmt.Errorf("read original: %w", err)
	}

	for _, width := range common.ThumbnailWidths {
		out, err := w.resize(src, width)
		if err != nil {
			return models.JobFailed, fmt.Errorf("width %d: %w", width, err)
		}
		if err := w.blobs.Write(ctx, Key(file.BlobRef, width), out); err != nil {
			return models.JobFailed, fmt.Errorf("width %d: %w", width, err)
		}
	}

	return models.JobCompleted, nil
}

// Run consumes jobs with w.concurrency parallel loops until ctx is
// cancelled. Alongside them it keeps the consumer lease alive and requeues
// jobs held by consumers whose lease has lapsed. A job that has started is
// finished and acked even if ctx is cancelled meanwhile.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.queue.Renew(ctx); err != nil {
		return err
	}
	w.recover(ctx)

	w.logger.Info(ctx, "worker started", "concurrency", w.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.keepAlive(gctx)
		return nil
	})
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			w.loop(gctx, i)
			return nil
		})
	}

	err := g.Wait()
	w.logger.Info(context.WithoutCancel(ctx), "worker stopped")
	return err
}

func (w *Worker) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(w.queue.LeaseTTL() / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.queue.Renew(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				w.logger.Error(ctx, "lease renewal failed", "error", err)
				continue
			}
			w.recover(ctx)
		}
	}
}

func (w *Worker) recover(ctx context.Context) {
	n, err := w.queue.Recover(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error(ctx, "recover failed", "error", err)
		}
		return
	}
	if n > 0 {
		w.logger.Warn(ctx, "requeued unacknowledged jobs", "count", n)
	}
}

func (w *Worker) loop(ctx context.Context, slot int) {
	log := w.logger.With("slot", slot)

	for {
		d, err := w.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error(ctx, "consume failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(consumeBackoff):
			}
			continue
		}

		w.handle(context.WithoutCancel(ctx), log, d)
	}
}

func (w *Worker) handle(ctx context.Context, log logging.Logger, d *queue.Delivery) {
	log = log.With("file_id", d.Job.FileID, "user_id", d.Job.UserID)
	log.Debug(ctx, "job state", "state", models.JobProcessing)

	state := models.JobFailed
	var err error
	if d.Malformed {
		err = fmt.Errorf("malformed job payload")
	} else {
		state, err = w.Process(ctx, d.Job)
	}

	if state == models.JobCompleted {
		log.Info(ctx, "job state", "state", state)
	} else {
		log.Error(ctx, "job state", "state", state, "error", err)
	}

	if err := w.queue.Ack(ctx, d); err != nil {
		log.Error(ctx, "ack failed", "error", err)
	}
}

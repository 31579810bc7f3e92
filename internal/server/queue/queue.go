// Package queue carries thumbnail jobs from the file service to the workers.
package queue

import (
	"context"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Delivery is a job handed to one consumer. It stays pending until acked.
type Delivery struct {
	Job models.ThumbnailJob
	// Malformed is set when the payload could not be decoded; Job is zero then.
	Malformed bool
	raw       string
}

// Queue is an at-least-once job queue.
type Queue interface {
	// Enqueue must not wait for the job to be processed.
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
	// Consume blocks until a job is available or ctx is done.
	Consume(ctx context.Context) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	// Renew marks the consumer alive for LeaseTTL.
	Renew(ctx context.Context) error
	LeaseTTL() time.Duration
	// Recover puts back deliveries held by consumers that stopped renewing
	// and reports how many were moved.
	Recover(ctx context.Context) (int, error)
}

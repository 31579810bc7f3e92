package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPollTimeout = time.Second
	defaultLeaseTTL    = 30 * time.Second
)

// RedisQueue keeps pending jobs in a Redis list. Each queue instance is a
// consumer with its own processing list, guarded by a lease key that lives
// only while the consumer keeps renewing it. Jobs move into the processing
// list when consumed and leave it when acked.
type RedisQueue struct {
	client      *redis.Client
	name        string
	pending     string
	consumer    string
	pollTimeout time.Duration
	leaseTTL    time.Duration
}

func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client:      client,
		name:        name,
		pending:     name,
		consumer:    uuid.NewString(),
		pollTimeout: defaultPollTimeout,
		leaseTTL:    defaultLeaseTTL,
	}
}

func (q *RedisQueue) consumersKey() string { return q.name + ":consumers" }

func (q *RedisQueue) processingKey(consumer string) string {
	return q.name + ":processing:" + consumer
}

func (q *RedisQueue) leaseKey(consumer string) string {
	return q.name + ":lease:" + consumer
}

// LeaseTTL is how long the consumer counts as alive after a Renew.
func (q *RedisQueue) LeaseTTL() time.Duration { return q.leaseTTL }

func (q *RedisQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.pending, payload).Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// Renew registers the consumer and extends its lease.
func (q *RedisQueue) Renew(ctx context.Context) error {
	_, err := q.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, q.consumersKey(), q.consumer)
		p.Set(ctx, q.leaseKey(q.consumer), time.Now().UTC().Format(time.RFC3339), q.leaseTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("renew lease: %w", err)
	}
	return nil
}

func (q *RedisQueue) Consume(ctx context.Context) (*Delivery, error) {
	processing := q.processingKey(q.consumer)
	for {
		raw, err := q.client.BLMove(ctx, q.pending, processing, "RIGHT", "LEFT", q.pollTimeout).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("consume: %w", err)
		}

		d := &Delivery{raw: raw}
		if err := json.Unmarshal([]byte(raw), &d.Job); err != nil {
			d.Malformed = true
			d.Job = models.ThumbnailJob{}
		}
		return d, nil
	}
}

func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	if d == nil {
		return nil
	}
	if err := q.client.LRem(ctx, q.processingKey(q.consumer), 1, d.raw).Err(); err != nil {
		return fmt.Errorf("ack: %w", err)
	}
	return nil
}

// Recover moves the processing lists of consumers whose lease has lapsed
// back to the consuming end of the pending list, oldest job first, so
// recovered jobs run before newer ones. Live consumers are left alone.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	consumers, err := q.client.SMembers(ctx, q.consumersKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("recover: %w", err)
	}

	n := 0
	for _, c := range consumers {
		if c == q.consumer {
			continue
		}
		alive, err := q.client.Exists(ctx, q.leaseKey(c)).Result()
		if err != nil {
			return n, fmt.Errorf("recover: %w", err)
		}
		if alive > 0 {
			continue
		}

		moved, err := q.drain(ctx, q.processingKey(c))
		n += moved
		if err != nil {
			return n, err
		}
		if err := q.client.SRem(ctx, q.consumersKey(), c).Err(); err != nil {
			return n, fmt.Errorf("recover: %w", err)
		}
	}
	return n, nil
}

// drain empties processing into pending. The newest job is taken first and
// each one is pushed onto the consuming end, so the oldest ends up next.
func (q *RedisQueue) drain(ctx context.Context, processing string) (int, error) {
	n := 0
	for {
		err := q.client.LMove(ctx, processing, q.pending, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("recover: %w", err)
		}
		n++
	}
}

// Len reports the number of jobs waiting to be consumed.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.pending).Result()
}

// InFlight reports the number of jobs this consumer holds unacked.
func (q *RedisQueue) InFlight(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.processingKey(q.consumer)).Result()
}

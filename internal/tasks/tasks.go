package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/hibiken/asynq"
)

const (
	// TypeInvoiceGenerate is the task type of one invoice generation job.
	TypeInvoiceGenerate = "invoice:generate"

	// QueueInvoices is the queue all billing jobs run on.
	QueueInvoices = "invoices"

	// jobTimeout bounds one generation run; a hung render or a stuck
	// database call must not block the worker slot forever.
	jobTimeout = 30 * time.Second

	// jobMaxRetry is the number of retries after the first failed attempt.
	jobMaxRetry = 2
)

// InvoiceGeneratePayload is the wire form of an invoice generation job.
type InvoiceGeneratePayload struct {
	SubjectID     string    `json:"subject_id"`
	RunDay        time.Time `json:"run_day"`
	PaidInCash    bool      `json:"paid_in_cash"`
	ActorID       string    `json:"actor_id"`
	CorrelationID string    `json:"correlation_id"`
}

// Client enqueues billing jobs. It implements service.JobEnqueuer.
type Client struct {
	asynq *asynq.Client
}

// NewClient creates a task client over the given Redis connection.
func NewClient(redisOpt asynq.RedisClientOpt) *Client {
	return &Client{asynq: asynq.NewClient(redisOpt)}
}

// Close releases the underlying Redis connections.
func (c *Client) Close() error {
	return c.asynq.Close()
}

// EnqueueInvoiceGeneration enqueues one invoice generation job. The task id
// is derived from the subject and run day, so a repeated trigger for the
// same subject and day is dropped instead of queued twice, and two jobs for
// one subject never run concurrently while the first is still pending.
func (c *Client) EnqueueInvoiceGeneration(ctx context.Context, job service.InvoiceJob) error {
	payload, err := json.Marshal(InvoiceGeneratePayload{
		SubjectID:     job.SubjectID.String(),
		RunDay:        job.RunDay,
		PaidInCash:    job.PaidInCash,
		ActorID:       job.ActorID.String(),
		CorrelationID: job.CorrelationID,
	})
	if err != nil {
		return fmt.Errorf("marshal invoice job: %w", err)
	}

	task := asynq.NewTask(TypeInvoiceGenerate, payload)
	taskID := fmt.Sprintf("%s:%s:%s:%s",
		TypeInvoiceGenerate, job.Kind, job.SubjectID, job.RunDay.Format("2006-01-02"))

	_, err = c.asynq.EnqueueContext(ctx, task,
		asynq.Queue(QueueInvoices),
		asynq.TaskID(taskID),
		asynq.Timeout(jobTimeout),
		asynq.MaxRetry(jobMaxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Already queued or running for this subject and day.
		return nil
	}
	return err
}

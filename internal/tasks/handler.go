package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InvoiceGenerator runs the invoice generation workflow for one subject.
// *service.InvoiceService satisfies it.
type InvoiceGenerator interface {
	Generate(ctx context.Context, input service.GenerateInput) (*entity.Invoice, error)
}

// Handler processes billing tasks pulled from the queue.
type Handler struct {
	generator InvoiceGenerator
	log       *zap.SugaredLogger
}

// NewHandler creates a task handler
func NewHandler(generator InvoiceGenerator, log *zap.SugaredLogger) *Handler {
	return &Handler{generator: generator, log: log}
}

// HandleInvoiceGenerate processes one invoice generation task. Malformed
// payloads and vanished subjects skip the retry budget; everything else is
// retried by the server until jobMaxRetry is exhausted.
func (h *Handler) HandleInvoiceGenerate(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal invoice payload: %v: %w", err, asynq.SkipRetry)
	}

	subjectID, err := uuid.Parse(payload.SubjectID)
	if err != nil {
		return fmt.Errorf("invalid subject id %q: %v: %w", payload.SubjectID, err, asynq.SkipRetry)
	}
	actorID, err := uuid.Parse(payload.ActorID)
	if err != nil {
		return fmt.Errorf("invalid actor id %q: %v: %w", payload.ActorID, err, asynq.SkipRetry)
	}

	invoice, err := h.generator.Generate(ctx, service.GenerateInput{
		SubjectID:     subjectID,
		RunDay:        payload.RunDay,
		PaidInCash:    payload.PaidInCash,
		ActorID:       actorID,
		CorrelationID: payload.CorrelationID,
	})
	if err != nil {
		if appErr := apperror.GetAppError(err); appErr.Code == http.StatusNotFound {
			// The subject disappeared between enqueue and run; retrying
			// cannot help.
			return fmt.Errorf("%s: %w", appErr.Message, asynq.SkipRetry)
		}
		return err
	}

	if invoice == nil {
		h.log.Debugw("nothing to invoice",
			"subject_id", subjectID, "correlation_id", payload.CorrelationID)
	}
	return nil
}

// NewServer builds the asynq server and mux for the billing worker. The
// error handler fires on every failed attempt; terminal failures, where the
// retry budget is spent, are logged at error level for operator follow-up.
func NewServer(redisOpt asynq.RedisClientOpt, concurrency int, handler *Handler, log *zap.SugaredLogger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueInvoices: 10,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			if retried >= maxRetry || errors.Is(err, asynq.SkipRetry) {
				log.Errorw("task failed terminally",
					"type", task.Type(),
					"payload", string(task.Payload()),
					"retried", retried,
					"error", errors.Join(apperror.ErrTerminalJob, err))
				return
			}
			log.Warnw("task failed, will retry",
				"type", task.Type(), "retried", retried, "error", err)
		}),
		RetryDelayFunc: func(n int, err error, t *asynq.Task) time.Duration {
			return time.Duration(n+1) * 10 * time.Second
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoiceGenerate, handler.HandleInvoiceGenerate)
	return srv, mux
}

package service

import (
	"context"
	"time"

	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceJob is the payload of one enqueued invoice generation task.
type InvoiceJob struct {
	SubjectID     uuid.UUID        `json:"subject_id"`
	Kind          enum.SubjectKind `json:"kind"`
	RunDay        time.Time        `json:"run_day"`
	PaidInCash    bool             `json:"paid_in_cash"`
	ActorID       uuid.UUID        `json:"actor_id"`
	CorrelationID string           `json:"correlation_id"`
}

// JobEnqueuer puts invoice generation jobs on the durable queue.
type JobEnqueuer interface {
	EnqueueInvoiceGeneration(ctx context.Context, job InvoiceJob) error
}

// SchedulerService is the cronjob trigger: it enumerates the eligible
// subjects and enqueues one job each. Whether a subject actually needs an
// invoice is decided inside the job, at execution time, so the
// enumeration stays cheap and tolerates subjects becoming ineligible
// between enqueue and run.
type SchedulerService struct {
	subjectRepo repository.BillingSubjectRepository
	enqueuer    JobEnqueuer
	log         *zap.SugaredLogger
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(subjectRepo repository.BillingSubjectRepository, enqueuer JobEnqueuer, log *zap.SugaredLogger) *SchedulerService {
	return &SchedulerService{
		subjectRepo: subjectRepo,
		enqueuer:    enqueuer,
		log:         log,
	}
}

// EnqueueInvoiceJobs enqueues one invoice generation job per active subject
// of the given kind and returns the number of jobs enqueued. The call
// returns immediately after enqueueing; nothing blocks on job completion.
func (s *SchedulerService) EnqueueInvoiceJobs(ctx context.Context, kind enum.SubjectKind, runDay time.Time, actorID uuid.UUID) (int, error) {
	subjects, err := s.subjectRepo.ListActive(ctx, kind)
	if err != nil {
		return 0, err
	}

	correlationID := uuid.New().String()
	enqueued := 0
	for _, subject := range subjects {
		job := InvoiceJob{
			SubjectID:     subject.ID,
			Kind:          kind,
			RunDay:        runDay,
			PaidInCash:    false,
			ActorID:       actorID,
			CorrelationID: correlationID,
		}
		if err := s.enqueuer.EnqueueInvoiceGeneration(ctx, job); err != nil {
			s.log.Errorw("failed to enqueue invoice job",
				"subject_id", subject.ID, "correlation_id", correlationID, "error", err)
			continue
		}
		enqueued++
	}

	s.log.Infow("invoice jobs enqueued",
		"kind", kind.String(), "run_day", runDay.Format("2006-01-02"),
		"subjects", len(subjects), "enqueued", enqueued,
		"correlation_id", correlationID)
	return enqueued, nil
}

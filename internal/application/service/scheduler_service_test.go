package service

import (
	"context"
	"testing"
	"time"

	"github.com/coopshop/billing-api/internal/domain/entity"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnqueueInvoiceJobsEnqueuesActiveSubjects(t *testing.T) {
	subjectRepo := newFakeSubjectRepo()
	ctx := context.Background()

	require.NoError(t, subjectRepo.Create(ctx, &entity.BillingSubject{
		Kind: enum.SubjectKindCustomer, Name: "Maria", Active: true,
	}))
	require.NoError(t, subjectRepo.Create(ctx, &entity.BillingSubject{
		Kind: enum.SubjectKindCustomer, Name: "Josef", Active: true,
	}))
	require.NoError(t, subjectRepo.Create(ctx, &entity.BillingSubject{
		Kind: enum.SubjectKindCustomer, Name: "Inactive", Active: false,
	}))
	require.NoError(t, subjectRepo.Create(ctx, &entity.BillingSubject{
		Kind: enum.SubjectKindManufacturer, Name: "Bio-Hof", Active: true,
	}))

	enqueuer := &fakeEnqueuer{}
	svc := NewSchedulerService(subjectRepo, enqueuer, zap.NewNop().Sugar())

	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	enqueued, err := svc.EnqueueInvoiceJobs(ctx, enum.SubjectKindCustomer, runDay, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 2, enqueued)
	require.Len(t, enqueuer.jobs, 2)

	// All jobs of one run share a correlation id and the requested run day.
	correlationID := enqueuer.jobs[0].CorrelationID
	assert.NotEmpty(t, correlationID)
	for _, job := range enqueuer.jobs {
		assert.Equal(t, correlationID, job.CorrelationID)
		assert.Equal(t, enum.SubjectKindCustomer, job.Kind)
		assert.True(t, job.RunDay.Equal(runDay))
		assert.False(t, job.PaidInCash)
	}
}

func TestEnqueueInvoiceJobsContinuesOnEnqueueError(t *testing.T) {
	subjectRepo := newFakeSubjectRepo()
	ctx := context.Background()
	require.NoError(t, subjectRepo.Create(ctx, &entity.BillingSubject{
		Kind: enum.SubjectKindCustomer, Name: "Maria", Active: true,
	}))

	enqueuer := &fakeEnqueuer{err: assert.AnError}
	svc := NewSchedulerService(subjectRepo, enqueuer, zap.NewNop().Sugar())

	runDay := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	enqueued, err := svc.EnqueueInvoiceJobs(ctx, enum.SubjectKindCustomer, runDay, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, enqueued)
}

package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/metrics"
)

const jobExecutionTimeout = 5 * time.Minute

func executeJob(job jobModel.Job) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, jobExecutionTimeout)
	defer cancel()

	logger.Debug("processing job", "jobId", job.Id, "traceId", job.TraceId)

	job.Status = jobModel.JobStatusRunning
	saveJobState(ctx, job)

	job = _ragService.IngestDocument(ctx, job)

	if job.EndTime.IsZero() {
		job.EndTime = time.Now().UTC()
	}
	saveJobState(ctx, job)
	metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, job jobModel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("failed to persist job state", "jobId", job.Id, "error", err)
	}
}

package job

import (
	"sync/atomic"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/metrics"
)

// Service carries the ingestion queue plumbing: the buffered job
// channel the workers drain, the dispatcher signal that grows the pool,
// and the store status polls read from.
type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// Enqueue hands a job to the worker pool, signalling the dispatcher to
// grow it when the backlog outpaces the workers. Returns false when the
// queue is saturated; the caller should reject the upload.
func (s *Service) Enqueue(job jobModel.Job) bool {
	select {
	case s.JobChannel <- job:
	default:
		return false
	}
	metrics.IncrementJobsInQueue()

	count := atomic.AddInt64(&s.RequestCount, 1)
	if count%config.RequestsPerNewWorkerCount == 0 {
		select {
		case s.DispatcherChannel <- true:
			metrics.StartDispatcherSignalCount()
		default:
		}
	}
	return true
}

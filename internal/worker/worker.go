package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/job"
	"github.com/doctalk-ai/doctalk/internal/metrics"
	"github.com/doctalk-ai/doctalk/internal/rag"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var (
	_jobService        *job.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	dispatcherChannel  chan bool
	currentWorkerCount int64
	logger             *logger_i.Logger
	_ragService        rag.Service
)

func InitServices(jobService *job.Service, ragService rag.Service) {
	_jobService = jobService
	_ragService = ragService
	dispatcherChannel = jobService.DispatcherChannel
}

// InitWorkerPool starts the dispatcher with one worker. The pool grows
// on dispatcher signals up to MaxWorkerCount and shrinks again as
// workers idle out.
func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("creating new worker", "workerCount", atomic.LoadInt64(&currentWorkerCount))
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("stop worker signal received")
			return

		case <-time.After(config.IdleWorkerTimeout):
			// the last worker never retires, someone has to drain the queue
			if atomic.LoadInt64(&currentWorkerCount) > config.MinWorkerCount {
				removeWorker("idle worker timeout")
				return
			}
		}
	}
}

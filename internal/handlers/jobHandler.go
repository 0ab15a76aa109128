package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/doctalk-ai/doctalk/internal/adapter/utils"
	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/job"
	"github.com/doctalk-ai/doctalk/internal/rag"
	"github.com/doctalk-ai/doctalk/internal/registry"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var (
	handlerInstance *handlerDeps //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type handlerDeps struct {
	jobService *job.Service
	ragService rag.Service
	catalog    *registry.Registry
}

func InitHandlers(jobService *job.Service, ragService rag.Service, catalog *registry.Registry) {
	once.Do(func() {
		handlerInstance = &handlerDeps{
			jobService: jobService,
			ragService: ragService,
			catalog:    catalog,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("handlers initialized")
	})
}

// createIngestJob queues an ingestion and records the QUEUED state so a
// poll right after the 202 already finds the job. Returns false when
// the queue is full.
func createIngestJob(documentId string, documentName string, filePath string, traceId string) (string, bool) {
	newJob := jobModel.Job{
		Id:          utils.GetNewUUID(),
		DocumentId:  documentId,
		TraceId:     traceId,
		CreatedTime: time.Now().UTC(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
		Payload: jobModel.JobPayload{
			DocumentName: documentName,
			FilePath:     filePath,
		},
	}

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if err := handlerInstance.jobService.JobStore.SaveJob(ctx, newJob); err != nil {
		logJH.Error("error saving queued job", "jobId", newJob.Id, "error", err)
	}

	if !handlerInstance.jobService.Enqueue(newJob) {
		logJH.Error("job queue is full, rejecting upload", "jobId", newJob.Id)
		return "", false
	}
	logJH.Info("queued ingestion job", "jobId", newJob.Id, "documentId", documentId, "traceId", traceId)
	return newJob.Id, true
}

func getJobStatus(id string, traceId string) (jobModel.Job, bool) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.jobService.JobStore.GetJob(ctx, id)
	}
	return jobModel.Job{}, false
}

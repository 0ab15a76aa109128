package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit       InternalStatus = "Init"
	IngestExtracting InternalStatus = "Extracting"
	IngestChunking   InternalStatus = "Chunking"
	IngestEmbedding  InternalStatus = "Embedding"
	IngestIndexing   InternalStatus = "Indexing"
	Error            InternalStatus = "Error"
	Complete         InternalStatus = "Complete"
)

// Job tracks one document ingestion from upload to ready. Uploads are
// accepted with 202 and processed by the worker pool; callers poll
// /status/{id} until the document is queryable.
type Job struct {
	Id          string         `json:"id"`
	DocumentId  string         `json:"document_id"`
	TraceId     string         `json:"trace_id"`
	Payload     JobPayload     `json:"payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	DocumentName string `json:"document_name,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	ChunkCount   int    `json:"chunk_count,omitempty"`
	PageCount    int    `json:"page_count,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

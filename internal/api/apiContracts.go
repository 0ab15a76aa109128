package api

import "time"

// responses---------------------

type UploadResponse struct {
	DocumentId string `json:"document_id" example:"2f0c8f3e-4d9f-4f7a-a2f3-0a4b7c1d9e10"`
	JobId      string `json:"job_id" example:"job_cz109"`
	StatusURL  string `json:"status_url" example:"status/job_cz109"`
}

type JobResponse struct {
	Id          string         `json:"id" example:"job_cz109"`
	DocumentId  string         `json:"document_id"`
	Status      string         `json:"status" example:"RUNNING"`
	CurrentStep string         `json:"current_step" example:"Embedding"`
	Document    *DocumentInfo  `json:"document,omitempty"`
	Error       *OutgoingError `json:"error,omitempty"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
}

type OutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind" example:"invalid_request"`
	Message string `json:"message" example:"document does not exist"`
}

type ChatMessage struct {
	Role    string `json:"role" example:"user"`
	Content string `json:"content"`
}

type Source struct {
	DocumentId   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page"`
	Snippet      string  `json:"snippet"`
	Score        float32 `json:"score"`
}

type QueryResponse struct {
	Response         string        `json:"response"`
	ChatHistory      []ChatMessage `json:"chat_history"`
	Sources          []Source      `json:"sources,omitempty"`
	QueryLanguage    string        `json:"query_language" example:"en"`
	ResponseLanguage string        `json:"response_language" example:"en"`
}

type SummaryResponse struct {
	DocumentId   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Summary      string `json:"summary"`
	Language     string `json:"language" example:"en"`
}

type DocumentInfo struct {
	DocumentId string    `json:"document_id"`
	Name       string    `json:"doc_name"`
	Language   string    `json:"language,omitempty"`
	Status     string    `json:"status" example:"ready"`
	FailReason string    `json:"fail_reason,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

type DocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

type QuestionsResponse struct {
	DocumentId string   `json:"document_id"`
	Questions  []string `json:"questions"`
}

type ErrorResponse struct {
	Error OutgoingError `json:"error"`
}

// requests---------------------

type QueryRequest struct {
	Query          string   `json:"query" validate:"required"`
	DocumentIds    []string `json:"document_ids,omitempty"`
	QueryLanguage  string   `json:"query_language,omitempty" example:"en"`
	TargetLanguage string   `json:"target_language,omitempty" example:"es"`
}

type SummaryRequest struct {
	DocumentId     string `json:"document_id" validate:"required"`
	TargetLanguage string `json:"target_language,omitempty" example:"en"`
}

type QuestionsRequest struct {
	DocumentId string `json:"document_id" validate:"required"`
}

package docModel

import "time"

type DocStatus string

const (
	StatusProcessing DocStatus = "processing"
	StatusReady      DocStatus = "ready"
	StatusFailed     DocStatus = "failed"
)

type Document struct {
	Id         string    `json:"document_id"`
	Name       string    `json:"doc_name"`
	Language   string    `json:"language"`
	Status     DocStatus `json:"status"`
	FailReason string    `json:"fail_reason,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

type DocChunk struct {
	DocId   string `json:"source_doc_id"`
	DocName string `json:"doc_name"`
	ChunkId string `json:"chunk_id"`
	Seq     int    `json:"chunk_order"`
	Text    string `json:"content"`
	PageNum int    `json:"page_num"`
}

// SearchHit pairs a chunk with its cosine similarity against the query
// vector. Hits are always handed around sorted by descending score.
type SearchHit struct {
	Chunk DocChunk `json:"chunk"`
	Score float32  `json:"score"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

package adapter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/domain/jobModel"
	"github.com/doctalk-ai/doctalk/internal/rag"
)

func ToUploadResponse(documentId string, jobId string) api.UploadResponse {
	return api.UploadResponse{
		DocumentId: documentId,
		JobId:      jobId,
		StatusURL:  fmt.Sprintf("status/%s", jobId),
	}
}

func ToJobResponse(job jobModel.Job, doc *docModel.Document) api.JobResponse {
	var errorPtr *api.OutgoingError
	if job.Error.Message != "" || job.Error.Kind != "" {
		errorPtr = &api.OutgoingError{
			Code:    job.Error.Code,
			Kind:    job.Error.Kind,
			Message: job.Error.Message,
		}
	}

	var docPtr *api.DocumentInfo
	if doc != nil {
		info := ToDocumentInfo(*doc)
		docPtr = &info
	}

	return api.JobResponse{
		Id:          job.Id,
		DocumentId:  job.DocumentId,
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		Document:    docPtr,
		Error:       errorPtr,
		StartTime:   job.CreatedTime,
		EndTime:     job.EndTime,
	}
}

func ToQueryResponse(out rag.QueryOutput) api.QueryResponse {
	history := make([]api.ChatMessage, 0, len(out.ChatHistory))
	for _, msg := range out.ChatHistory {
		history = append(history, api.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	var sources []api.Source
	for _, hit := range out.Sources {
		sources = append(sources, api.Source{
			DocumentId:   hit.Chunk.DocId,
			DocumentName: hit.Chunk.DocName,
			Page:         hit.Chunk.PageNum,
			Snippet:      snippet(hit.Chunk.Text),
			Score:        hit.Score,
		})
	}

	return api.QueryResponse{
		Response:         out.Response,
		ChatHistory:      history,
		Sources:          sources,
		QueryLanguage:    out.QueryLanguage,
		ResponseLanguage: out.ResponseLanguage,
	}
}

func ToSummaryResponse(out rag.SummaryOutput) api.SummaryResponse {
	return api.SummaryResponse{
		DocumentId:   out.DocumentId,
		DocumentName: out.DocumentName,
		Summary:      out.Summary,
		Language:     out.Language,
	}
}

func ToDocumentInfo(doc docModel.Document) api.DocumentInfo {
	return api.DocumentInfo{
		DocumentId: doc.Id,
		Name:       doc.Name,
		Language:   doc.Language,
		Status:     string(doc.Status),
		FailReason: doc.FailReason,
		ChunkCount: doc.ChunkCount,
		IngestedAt: doc.IngestedAt,
	}
}

func ToDocumentsResponse(docs []docModel.Document) api.DocumentsResponse {
	infos := make([]api.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, ToDocumentInfo(doc))
	}
	return api.DocumentsResponse{Documents: infos}
}

// ToErrorResponse maps the error taxonomy to HTTP semantics. Provider
// stack traces never leave the process; the caller gets kind + message.
func ToErrorResponse(err error) (int, api.ErrorResponse) {
	kind := docModel.KindOf(err)
	code := httpStatusForKind(kind)

	message := "internal server error"
	var de *docModel.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	return code, api.ErrorResponse{
		Error: api.OutgoingError{
			Code:    code,
			Kind:    string(kind),
			Message: message,
		},
	}
}

func BadRequest(message string) (int, api.ErrorResponse) {
	return http.StatusBadRequest, api.ErrorResponse{
		Error: api.OutgoingError{
			Code:    http.StatusBadRequest,
			Kind:    string(docModel.KindInvalidRequest),
			Message: message,
		},
	}
}

func httpStatusForKind(kind docModel.ErrorKind) int {
	switch kind {
	case docModel.KindInvalidRequest:
		return http.StatusBadRequest
	case docModel.KindNotFound:
		return http.StatusNotFound
	case docModel.KindEmbedding, docModel.KindGeneration, docModel.KindTranslation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

const snippetRuneLimit = 200

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetRuneLimit {
		return text
	}
	return string(runes[:snippetRuneLimit]) + "…"
}

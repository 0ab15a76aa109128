package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doctalk-ai/doctalk/internal/adapter"
	"github.com/doctalk-ai/doctalk/internal/adapter/utils"
	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
	"github.com/doctalk-ai/doctalk/internal/rag"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

var logRH *logger_i.Logger

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".rtf":  true,
}

// GetHandler godoc
// @Summary      Health check
// @Tags         Health
// @Success      200
// @Router       /health [get]
func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// UploadHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, registers the document and queues an ingestion job. Poll the status URL until the document is ready.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true   "The PDF, DOCX, TXT or RTF file to upload"
// @Param        document_name  formData  string  false  "Display name, defaults to the uploaded filename"
// @Success      202  {object}  api.UploadResponse  "Ingestion queued"
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("couldn't get target directory", "error", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, string(docModel.KindConfiguration), errString)
		return
	}

	const maxUploadSize = 32 << 20 //32mb
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		code, body := adapter.BadRequest("file too large or malformed form")
		writeJsonResponse(w, code, body)
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		code, body := adapter.BadRequest("could not retrieve file field 'document'")
		writeJsonResponse(w, code, body)
		return
	}
	defer fileReader.Close()

	docName := r.FormValue("document_name")
	if docName == "" {
		docName = fileMetadata.Filename
	}

	ext := strings.ToLower(filepath.Ext(fileMetadata.Filename))
	if !allowedUploadExtensions[ext] {
		code, body := adapter.BadRequest(fmt.Sprintf("unsupported file type %q", ext))
		writeJsonResponse(w, code, body)
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, string(docModel.KindConfiguration), "storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, string(docModel.KindConfiguration), "write error")
		return
	}

	doc := handlerInstance.catalog.Register(docName, "")
	jobId, ok := createIngestJob(doc.Id, docName, tempFilePath, traceIdFrom(r.Context()))
	if !ok {
		handlerInstance.catalog.Remove(doc.Id)
		WriteErrorResponse(w, http.StatusServiceUnavailable, string(docModel.KindConfiguration), "ingestion queue is full, retry later")
		return
	}

	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(doc.Id, jobId))
}

// QueryHandler godoc
// @Summary      Ask a question about uploaded documents
// @Description  Runs retrieval-augmented generation over the ready documents. Optional language fields override detection; the answer is delivered in the target language with a translation annotation when one was applied.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest  true  "Query, optional document IDs and language hints"
// @Success      200      {object}  api.QueryResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	if !decodeBody(w, r, &requestData) {
		return
	}

	out, err := handlerInstance.ragService.Query(r.Context(), rag.QueryInput{
		Query:          requestData.Query,
		DocumentIds:    requestData.DocumentIds,
		QueryLanguage:  requestData.QueryLanguage,
		TargetLanguage: requestData.TargetLanguage,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(out))
}

// SummaryHandler godoc
// @Summary      Summarize a document
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.SummaryRequest  true  "Document ID and optional target language"
// @Success      200      {object}  api.SummaryResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      502      {object}  api.ErrorResponse
// @Router       /summary [post]
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	var requestData api.SummaryRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if requestData.DocumentId == "" {
		code, body := adapter.BadRequest("document_id is required")
		writeJsonResponse(w, code, body)
		return
	}

	out, err := handlerInstance.ragService.Summarize(r.Context(), rag.SummaryInput{
		DocumentId:     requestData.DocumentId,
		TargetLanguage: requestData.TargetLanguage,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToSummaryResponse(out))
}

// QuestionsHandler godoc
// @Summary      Suggest sample questions for a document
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QuestionsRequest  true  "Document ID"
// @Success      200      {object}  api.QuestionsResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /questions [post]
func QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	var requestData api.QuestionsRequest
	if !decodeBody(w, r, &requestData) {
		return
	}
	if requestData.DocumentId == "" {
		code, body := adapter.BadRequest("document_id is required")
		writeJsonResponse(w, code, body)
		return
	}

	questions, err := handlerInstance.ragService.SampleQuestions(r.Context(), requestData.DocumentId)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, api.QuestionsResponse{
		DocumentId: requestData.DocumentId,
		Questions:  questions,
	})
}

// DocumentsHandler godoc
// @Summary      List ready documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentsResponse
// @Router       /documents [get]
func DocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	docs := handlerInstance.catalog.List()
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentsResponse(docs))
}

// GetStatusHandler godoc
// @Summary      Get ingestion job status
// @Description  Retrieves the current state of an ingestion job, including the document snapshot once it is registered.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("invalid context by request", "remoteAddr", r.RemoteAddr)
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	result, isFound := getJobStatus(idString, traceIdFrom(r.Context()))
	if idString == "" || !isFound {
		WriteErrorResponse(w, http.StatusNotFound, string(docModel.KindNotFound), "job not found")
		return
	}

	var docPtr *docModel.Document
	if doc, err := handlerInstance.catalog.Get(result.DocumentId); err == nil {
		docPtr = &doc
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToJobResponse(result, docPtr))
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("couldn't close request body", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		logRH.Warn("bad request body", "error", err)
		code, body := adapter.BadRequest("malformed request body")
		writeJsonResponse(w, code, body)
		return false
	}
	return true
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/doctalk-ai/doctalk/internal/adapter"
	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/config"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// too late for a clean status code, just log it
		logRH.Error("error encoding response", "error", err)
	}
}

// writeDomainError maps the error taxonomy to an HTTP response.
func writeDomainError(w http.ResponseWriter, err error) {
	code, body := adapter.ToErrorResponse(err)
	writeJsonResponse(w, code, body)
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, kind string, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{
		Error: api.OutgoingError{
			Code:    httpCode,
			Kind:    kind,
			Message: message,
		},
	})
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func traceIdFrom(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

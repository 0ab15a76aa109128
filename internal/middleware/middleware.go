package middleware

import (
	"net/http"
	"strconv"

	"github.com/doctalk-ai/doctalk/internal/handlers"
	"github.com/doctalk-ai/doctalk/internal/metrics"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var UploadHandler = Wrap(handlers.UploadHandler)
var QueryHandler = Wrap(handlers.QueryHandler)
var SummaryHandler = Wrap(handlers.SummaryHandler)
var QuestionsHandler = Wrap(handlers.QuestionsHandler)
var DocumentsHandler = Wrap(handlers.DocumentsHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// Wrap runs the shared middleware chain and records request metrics.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}

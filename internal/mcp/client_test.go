package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doctalk-ai/doctalk/internal/api"
)

func TestQueryRoundTrip(t *testing.T) {
	var gotRequest api.QueryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(api.QueryResponse{
			Response:         "The warranty lasts two years.",
			ResponseLanguage: "en",
			Sources:          []api.Source{{DocumentId: "doc-1", Page: 3}},
		})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL + "/")
	response, err := client.Query(context.Background(), api.QueryRequest{
		Query:       "how long is the warranty?",
		DocumentIds: []string{"doc-1"},
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if gotRequest.Query != "how long is the warranty?" {
		t.Errorf("server saw query %q", gotRequest.Query)
	}
	if response.Response != "The warranty lasts two years." {
		t.Errorf("unexpected response %q", response.Response)
	}
	if len(response.Sources) != 1 || response.Sources[0].Page != 3 {
		t.Errorf("unexpected sources %+v", response.Sources)
	}
}

func TestDocumentsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.DocumentsResponse{
			Documents: []api.DocumentInfo{{DocumentId: "doc-1", Name: "manual.pdf", Status: "ready"}},
		})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	response, err := client.Documents(context.Background())
	if err != nil {
		t.Fatalf("documents failed: %v", err)
	}
	if len(response.Documents) != 1 || response.Documents[0].Name != "manual.pdf" {
		t.Errorf("unexpected documents %+v", response.Documents)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.ErrorResponse{
			Error: api.OutgoingError{Code: 404, Kind: "not_found", Message: "document does not exist"},
		})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.Summary(context.Background(), api.SummaryRequest{DocumentId: "ghost"})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "not_found") || !strings.Contains(err.Error(), "document does not exist") {
		t.Errorf("error should carry the server kind and message, got %q", err)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL)
	_, err := client.Questions(context.Background(), api.QuestionsRequest{DocumentId: "doc-1"})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should mention the status code, got %q", err)
	}
}

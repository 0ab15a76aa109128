package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// QueryInput is the input schema for the query_documents tool.
type QueryInput struct {
	Query          string   `json:"query" jsonschema:"the question to ask about the uploaded documents"`
	DocumentIds    []string `json:"document_ids,omitempty" jsonschema:"restrict the search to these document ids; all ready documents when empty"`
	QueryLanguage  string   `json:"query_language,omitempty" jsonschema:"ISO 639-1 code of the question language; detected when empty"`
	TargetLanguage string   `json:"target_language,omitempty" jsonschema:"ISO 639-1 code the answer should be returned in"`
}

// QueryOutput is the output schema for the query_documents tool.
type QueryOutput struct {
	Response         string       `json:"response"`
	ResponseLanguage string       `json:"response_language"`
	Sources          []api.Source `json:"sources,omitempty"`
}

// SummaryInput is the input schema for the summarize_document tool.
type SummaryInput struct {
	DocumentId     string `json:"document_id" jsonschema:"the id of the document to summarize"`
	TargetLanguage string `json:"target_language,omitempty" jsonschema:"ISO 639-1 code the summary should be written in; the document language when empty"`
}

// SummaryOutput is the output schema for the summarize_document tool.
type SummaryOutput struct {
	DocumentName string `json:"document_name"`
	Summary      string `json:"summary"`
	Language     string `json:"language"`
}

// QuestionsInput is the input schema for the sample_questions tool.
type QuestionsInput struct {
	DocumentId string `json:"document_id" jsonschema:"the id of the document to suggest questions for"`
}

// QuestionsOutput is the output schema for the sample_questions tool.
type QuestionsOutput struct {
	Questions []string `json:"questions"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []api.DocumentInfo `json:"documents"`
	Count     int                `json:"count"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Ask a question about the ingested documents and get a grounded answer with source citations",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents that are ready to be queried",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_document",
		Description: "Summarize one ingested document, optionally in a target language",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sample_questions",
		Description: "Suggest example questions that one ingested document can answer",
	}, s.handleQuestions)
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	response, err := s.client.Query(ctx, api.QueryRequest{
		Query:          input.Query,
		DocumentIds:    input.DocumentIds,
		QueryLanguage:  input.QueryLanguage,
		TargetLanguage: input.TargetLanguage,
	})
	if err != nil {
		s.logger.Error("query tool failed", "error", err)
		return nil, QueryOutput{}, err
	}

	return nil, QueryOutput{
		Response:         response.Response,
		ResponseLanguage: response.ResponseLanguage,
		Sources:          response.Sources,
	}, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	response, err := s.client.Documents(ctx)
	if err != nil {
		s.logger.Error("list tool failed", "error", err)
		return nil, ListOutput{}, err
	}

	return nil, ListOutput{
		Documents: response.Documents,
		Count:     len(response.Documents),
	}, nil
}

func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	response, err := s.client.Summary(ctx, api.SummaryRequest{
		DocumentId:     input.DocumentId,
		TargetLanguage: input.TargetLanguage,
	})
	if err != nil {
		s.logger.Error("summary tool failed", "error", err)
		return nil, SummaryOutput{}, err
	}

	return nil, SummaryOutput{
		DocumentName: response.DocumentName,
		Summary:      response.Summary,
		Language:     response.Language,
	}, nil
}

func (s *Server) handleQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuestionsInput,
) (*mcp.CallToolResult, QuestionsOutput, error) {
	response, err := s.client.Questions(ctx, api.QuestionsRequest{
		DocumentId: input.DocumentId,
	})
	if err != nil {
		s.logger.Error("questions tool failed", "error", err)
		return nil, QuestionsOutput{}, err
	}

	return nil, QuestionsOutput{Questions: response.Questions}, nil
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/customHttpClient"
)

// APIClient talks to a running DocTalk HTTP instance on behalf of
// MCP tool calls. Responses are decoded into the same contract
// structs the server writes.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: customHttpClient.NewPooledClient(),
	}
}

func (c *APIClient) Query(ctx context.Context, request api.QueryRequest) (api.QueryResponse, error) {
	var response api.QueryResponse
	err := c.postJson(ctx, "/query", request, &response)
	return response, err
}

func (c *APIClient) Summary(ctx context.Context, request api.SummaryRequest) (api.SummaryResponse, error) {
	var response api.SummaryResponse
	err := c.postJson(ctx, "/summary", request, &response)
	return response, err
}

func (c *APIClient) Questions(ctx context.Context, request api.QuestionsRequest) (api.QuestionsResponse, error) {
	var response api.QuestionsResponse
	err := c.postJson(ctx, "/questions", request, &response)
	return response, err
}

func (c *APIClient) Documents(ctx context.Context) (api.DocumentsResponse, error) {
	var response api.DocumentsResponse
	err := c.getJson(ctx, "/documents", &response)
	return response, err
}

func (c *APIClient) postJson(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request, path, out)
}

func (c *APIClient) getJson(ctx context.Context, path string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(request, path, out)
}

func (c *APIClient) do(request *http.Request, path string, out any) error {
	response, err := c.HttpClient.Do(request)
	if err != nil {
		return fmt.Errorf("calling %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return decodeAPIError(response, path)
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// decodeAPIError surfaces the server's own error kind and message
// when the body carries one, falling back to the raw status.
func decodeAPIError(response *http.Response, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, 4096))

	var failure api.ErrorResponse
	if err := json.Unmarshal(raw, &failure); err == nil && failure.Error.Message != "" {
		return fmt.Errorf("%s: %s: %s", path, failure.Error.Kind, failure.Error.Message)
	}
	return fmt.Errorf("%s: unexpected status %d", path, response.StatusCode)
}

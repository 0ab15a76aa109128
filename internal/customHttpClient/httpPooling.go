package customHttpClient

import (
	"net/http"

	"github.com/doctalk-ai/doctalk/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns a client backed by the shared keep-alive
// transport so repeated calls to the same host reuse connections.
func NewPooledClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.MCPCallTimeout,
	}
}

package api

import "github.com/dmorval/linkscope/pkg/graph"

// ErrorResponse is the JSON body for all error replies
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// GraphResponse wraps a built payload with delivery metadata
type GraphResponse struct {
	*graph.Payload
	Cached      bool  `json:"cached"`
	BuildMillis int64 `json:"buildMillis"`
}

// DatasetsResponse lists the dataset scopes available for querying
type DatasetsResponse struct {
	Datasets []string `json:"datasets"`
}

// HealthResponse is the /health reply
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// FocusResponse acknowledges a published deep-link focus request
type FocusResponse struct {
	ID string `json:"id"`
}

// ArchiveResponse reports where a case snapshot was written
type ArchiveResponse struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
}

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/graph"
)

// parseGraphQuery reads a graph.Query from URL parameters:
//
//	dataset   (required) dataset scope
//	from, to  RFC 3339 timestamps bounding the window
//	type      all | call | sms
//	minWeight minimum edge weight to keep
//	limit     node cap for the payload
func parseGraphQuery(r *http.Request) (graph.Query, error) {
	var q graph.Query
	values := r.URL.Query()

	q.DatasetScope = values.Get("dataset")
	if q.DatasetScope == "" {
		return q, fmt.Errorf("missing required parameter 'dataset'")
	}

	var err error
	if q.From, err = parseTimeParam(values.Get("from")); err != nil {
		return q, fmt.Errorf("parameter 'from': %w", err)
	}
	if q.To, err = parseTimeParam(values.Get("to")); err != nil {
		return q, fmt.Errorf("parameter 'to': %w", err)
	}

	if v := values.Get("type"); v != "" {
		q.EventType = events.EventType(v)
		if !q.EventType.Valid() {
			return q, fmt.Errorf("parameter 'type': unknown event type %q", v)
		}
	}

	if q.MinEdgeWeight, err = parseIntParam(values.Get("minWeight")); err != nil {
		return q, fmt.Errorf("parameter 'minWeight': %w", err)
	}
	if q.LimitNodes, err = parseIntParam(values.Get("limit")); err != nil {
		return q, fmt.Errorf("parameter 'limit': %w", err)
	}

	return q.WithDefaults(), nil
}

func parseTimeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 timestamp: %w", err)
	}
	return &t, nil
}

func parseIntParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("expected integer: %w", err)
	}
	return n, nil
}

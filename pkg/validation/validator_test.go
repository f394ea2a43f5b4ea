package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/dmorval/linkscope/pkg/graph"
)

func validQuery() *graph.Query {
	return &graph.Query{
		DatasetScope:  "case1",
		EventType:     "all",
		MinEdgeWeight: 1,
		LimitNodes:    500,
	}
}

func TestValidateQuery_Valid(t *testing.T) {
	if err := ValidateQuery(validQuery()); err != nil {
		t.Errorf("Valid query rejected: %v", err)
	}
}

func TestValidateQuery_Nil(t *testing.T) {
	if err := ValidateQuery(nil); err == nil {
		t.Error("Nil query must be rejected")
	}
}

func TestValidateQuery_RequiresDataset(t *testing.T) {
	q := validQuery()
	q.DatasetScope = ""
	err := ValidateQuery(q)
	if err == nil {
		t.Fatal("Missing dataset must be rejected")
	}
	if !strings.Contains(err.Error(), "DatasetScope") {
		t.Errorf("Error should name the field: %v", err)
	}
}

func TestValidateQuery_RejectsUnknownEventType(t *testing.T) {
	q := validQuery()
	q.EventType = "fax"
	if err := ValidateQuery(q); err == nil {
		t.Error("Unknown event type must be rejected")
	}
}

func TestValidateQuery_Ceilings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*graph.Query)
	}{
		{"weight above ceiling", func(q *graph.Query) { q.MinEdgeWeight = MaxMinEdgeWeight + 1 }},
		{"limit above ceiling", func(q *graph.Query) { q.LimitNodes = MaxLimitNodes + 1 }},
		{"negative weight", func(q *graph.Query) { q.MinEdgeWeight = -1 }},
		{"negative limit", func(q *graph.Query) { q.LimitNodes = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(q)
			if err := ValidateQuery(q); err == nil {
				t.Error("Out-of-range value must be rejected")
			}
		})
	}
}

func TestValidateQuery_CeilingValuesAllowed(t *testing.T) {
	q := validQuery()
	q.MinEdgeWeight = MaxMinEdgeWeight
	q.LimitNodes = MaxLimitNodes
	if err := ValidateQuery(q); err != nil {
		t.Errorf("Ceiling values are inclusive: %v", err)
	}
}

func TestValidateQuery_InvertedTimeWindow(t *testing.T) {
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	q := validQuery()
	q.From = &from
	q.To = &to
	if err := ValidateQuery(q); err == nil {
		t.Error("Inverted time window must be rejected")
	}

	q.To = &from
	q.From = &from
	if err := ValidateQuery(q); err != nil {
		t.Errorf("Equal from/to is a valid instant window: %v", err)
	}
}

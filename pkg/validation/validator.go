// Package validation checks inbound graph queries before they reach the
// builder, so malformed or abusive parameters fail fast at the API edge.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmorval/linkscope/pkg/graph"
)

var validate *validator.Validate

// Parameter ceilings; anything larger belongs to a batch pipeline, not an
// interactive explorer
const (
	MaxLimitNodes    = 5000
	MaxMinEdgeWeight = 100000
)

func init() {
	validate = validator.New()
}

// ValidateQuery validates a graph build query
func ValidateQuery(q *graph.Query) error {
	if q == nil {
		return errors.New("query cannot be nil")
	}

	if err := validate.Struct(q); err != nil {
		return formatValidationError(err)
	}

	if q.MinEdgeWeight > MaxMinEdgeWeight {
		return fmt.Errorf("MinEdgeWeight: maximum %d, got %d", MaxMinEdgeWeight, q.MinEdgeWeight)
	}
	if q.LimitNodes > MaxLimitNodes {
		return fmt.Errorf("LimitNodes: maximum %d, got %d", MaxLimitNodes, q.LimitNodes)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return errors.New("time window: 'to' precedes 'from'")
	}
	return nil
}

// formatValidationError flattens validator's error list into one message
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed '%s' validation", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// Package graphql exposes built graph payloads through a GraphQL schema,
// for frontends that want field selection instead of the full REST payload.
package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dmorval/linkscope/pkg/events"
	gr "github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/validation"
)

// Source builds payloads for the resolvers. The API server satisfies this.
type Source interface {
	Graph(ctx context.Context, q gr.Query) (*gr.Payload, bool, error)
	Datasets(ctx context.Context) ([]string, error)
}

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Node",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"degree":         &graphql.Field{Type: graphql.Int},
		"weightedDegree": &graphql.Field{Type: graphql.Float},
		"community":      &graphql.Field{Type: graphql.String},
		"totalEvents":    &graphql.Field{Type: graphql.Int},
		"totalDuration":  &graphql.Field{Type: graphql.Float},
		"firstSeen":      &graphql.Field{Type: graphql.DateTime},
		"lastSeen":       &graphql.Field{Type: graphql.DateTime},
	},
})

var edgeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Edge",
	Fields: graphql.Fields{
		"source":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"target":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"weight":        &graphql.Field{Type: graphql.Float},
		"eventCount":    &graphql.Field{Type: graphql.Int},
		"totalDuration": &graphql.Field{Type: graphql.Float},
		"firstSeen":     &graphql.Field{Type: graphql.DateTime},
		"lastSeen":      &graphql.Field{Type: graphql.DateTime},
	},
})

var communityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Community",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"size":     &graphql.Field{Type: graphql.Int},
		"topNodes": &graphql.Field{Type: graphql.NewList(nodeType)},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"nodeCount":  &graphql.Field{Type: graphql.Int},
		"edgeCount":  &graphql.Field{Type: graphql.Int},
		"density":    &graphql.Field{Type: graphql.Float},
		"components": &graphql.Field{Type: graphql.Int},
		"isolates":   &graphql.Field{Type: graphql.Int},
		"avgDegree":  &graphql.Field{Type: graphql.Float},
	},
})

var payloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GraphPayload",
	Fields: graphql.Fields{
		"nodes": &graphql.Field{
			Type: graphql.NewList(nodeType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*gr.Payload).Graph.Nodes, nil
			},
		},
		"edges": &graphql.Field{
			Type: graphql.NewList(edgeType),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*gr.Payload).Graph.Edges, nil
			},
		},
		"communities":      &graphql.Field{Type: graphql.NewList(communityType)},
		"stats":            &graphql.Field{Type: statsType},
		"truncated":        &graphql.Field{Type: graphql.Boolean},
		"truncationReason": &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the query schema over a payload source
func NewSchema(src Source) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"datasets": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return src.Datasets(p.Context)
				},
			},
			"graph": &graphql.Field{
				Type: payloadType,
				Args: graphql.FieldConfigArgument{
					"dataset":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"from":          &graphql.ArgumentConfig{Type: graphql.DateTime},
					"to":            &graphql.ArgumentConfig{Type: graphql.DateTime},
					"eventType":     &graphql.ArgumentConfig{Type: graphql.String},
					"minEdgeWeight": &graphql.ArgumentConfig{Type: graphql.Int},
					"limitNodes":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					q, err := queryFromArgs(p.Args)
					if err != nil {
						return nil, err
					}
					payload, _, err := src.Graph(p.Context, q)
					return payload, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func queryFromArgs(args map[string]any) (gr.Query, error) {
	var q gr.Query
	q.DatasetScope, _ = args["dataset"].(string)

	q.From = timeArg(args, "from")
	q.To = timeArg(args, "to")
	if v, ok := args["eventType"].(string); ok && v != "" {
		q.EventType = events.EventType(v)
		if !q.EventType.Valid() {
			return q, fmt.Errorf("unknown event type %q", v)
		}
	}
	if v, ok := args["minEdgeWeight"].(int); ok {
		q.MinEdgeWeight = v
	}
	if v, ok := args["limitNodes"].(int); ok {
		q.LimitNodes = v
	}

	q = q.WithDefaults()
	if err := validation.ValidateQuery(&q); err != nil {
		return q, err
	}
	return q, nil
}

func timeArg(args map[string]any, key string) *time.Time {
	if t, ok := args[key].(time.Time); ok {
		return &t
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/medclarify/medclarify/internal/model"
)

// WeaviateIndex is a vector index backed by a Weaviate instance. Each claim
// record is one object with an externally supplied vector; sources are kept
// as a JSON string property so the schema stays flat.
type WeaviateIndex struct {
	client *weaviate.Client
	class  string
}

// NewWeaviateIndex connects to Weaviate at the given host/scheme
func NewWeaviateIndex(scheme, host, class string) (*WeaviateIndex, error) {
	client, err := weaviate.NewClient(weaviate.Config{
		Host:   host,
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	if class == "" {
		class = "HealthClaim"
	}

	return &WeaviateIndex{client: client, class: class}, nil
}

// Upsert stores the vector/record pair as a single Weaviate object
func (w *WeaviateIndex) Upsert(ctx context.Context, id string, vector []float32, record model.ClaimRecord) error {
	sources, err := json.Marshal(record.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = w.client.Data().Creator().
		WithClassName(w.class).
		WithID(id).
		WithVector(vector).
		WithProperties(map[string]interface{}{
			"claim":          record.ClaimText,
			"evidence_level": string(record.EvidenceLevel),
			"explanation":    record.Explanation,
			"sources":        string(sources),
			"origin":         string(record.Origin),
			"created_at":     createdAt.Format(time.RFC3339),
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate upsert: %w", err)
	}
	return nil
}

// claimQueryResponse mirrors the GraphQL Get response shape for the claim class
type claimQueryResponse struct {
	Get map[string][]claimObject `json:"Get"`
}

type claimObject struct {
	Claim         string `json:"claim"`
	EvidenceLevel string `json:"evidence_level"`
	Explanation   string `json:"explanation"`
	Sources       string `json:"sources"`
	Origin        string `json:"origin"`
	CreatedAt     string `json:"created_at"`
	Additional    struct {
		Certainty float64 `json:"certainty"`
	} `json:"_additional"`
}

// Query runs a nearVector search and returns up to topK matches. Certainty
// is reported by Weaviate in [0,1] regardless of distance metric, so it maps
// directly onto the relevance score.
func (w *WeaviateIndex) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	nearVector := w.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	fields := []graphql.Field{
		{Name: "claim"},
		{Name: "evidence_level"},
		{Name: "explanation"},
		{Name: "sources"},
		{Name: "origin"},
		{Name: "created_at"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	resp, err := w.client.GraphQL().Get().
		WithClassName(w.class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate query: %s", graphqlErrorMessage(resp))
	}

	parsed, err := parseGraphQLResponse[claimQueryResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}

	objects := parsed.Get[w.class]
	matches := make([]Match, 0, len(objects))
	for _, obj := range objects {
		var sources []model.Source
		if obj.Sources != "" {
			// Malformed stored sources degrade to an empty list
			if err := json.Unmarshal([]byte(obj.Sources), &sources); err != nil {
				sources = nil
			}
		}

		createdAt, _ := time.Parse(time.RFC3339, obj.CreatedAt)

		matches = append(matches, Match{
			Record: model.ClaimRecord{
				ClaimText:     obj.Claim,
				EvidenceLevel: model.EvidenceLevel(obj.EvidenceLevel),
				Explanation:   obj.Explanation,
				Sources:       sources,
				Origin:        model.Origin(obj.Origin),
				CreatedAt:     createdAt,
			},
			Score: obj.Additional.Certainty,
		})
	}

	return matches, nil
}

// aggregateResponse mirrors the GraphQL Aggregate response shape
type aggregateResponse struct {
	Aggregate map[string][]struct {
		Meta struct {
			Count int64 `json:"count"`
		} `json:"meta"`
	} `json:"Aggregate"`
}

// Count returns the total number of stored objects in the claim class
func (w *WeaviateIndex) Count(ctx context.Context) (int64, error) {
	resp, err := w.client.GraphQL().Aggregate().
		WithClassName(w.class).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("weaviate aggregate: %w", err)
	}
	if len(resp.Errors) > 0 {
		return 0, fmt.Errorf("weaviate aggregate: %s", graphqlErrorMessage(resp))
	}

	parsed, err := parseGraphQLResponse[aggregateResponse](resp)
	if err != nil {
		return 0, fmt.Errorf("parse aggregate response: %w", err)
	}

	rows := parsed.Aggregate[w.class]
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Meta.Count, nil
}

// parseGraphQLResponse converts Weaviate's dynamic response data into a
// typed struct via a marshal/unmarshal round trip.
func parseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response data: %w", err)
	}
	return &result, nil
}

func graphqlErrorMessage(resp *models.GraphQLResponse) string {
	if len(resp.Errors) == 0 || resp.Errors[0] == nil {
		return "unknown error"
	}
	return resp.Errors[0].Message
}

package search

import (
	"context"
	"fmt"

	"github.com/orbital-research/astra/internal/db"
	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/domain/document"
)

// Index field names for the document output set.
const (
	fieldSource         = "source_file"
	fieldText           = "text"
	fieldSummary        = "summary"
	fieldAbstract       = "abstract"
	fieldKeyPoints      = "key_points"
	fieldTechnicalTerms = "technical_terms"
	fieldRelationships  = "relationships"
)

// returnFields is the full document output field set requested per search.
var returnFields = []string{
	fieldSource, fieldText, fieldSummary, fieldAbstract,
	fieldKeyPoints, fieldTechnicalTerms, fieldRelationships,
}

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/retrieval.Repository.
type Repo struct {
	store     store
	indexName string
}

// New creates a search repository over the given FT index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, indexName: indexName}
}

// SearchKNN runs one nearest-neighbor query and hydrates documents from the
// returned hash fields. Candidates keep the index's ascending-distance order.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, topK int) ([]document.Document, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", r.indexName, domain.ErrRetrievalUnavailable, err)
	}

	return parseResults(sr), nil
}

// parseResults converts db.SearchResult into documents. Field extraction is
// defensive: a record missing a field yields an empty value for that field,
// never an error for the whole result.
func parseResults(sr *db.SearchResult) []document.Document {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	docs := make([]document.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docs = append(docs, document.Reconstruct(entry.Key, document.Fields{
			Source:         entry.Fields[fieldSource],
			Text:           entry.Fields[fieldText],
			Summary:        entry.Fields[fieldSummary],
			Abstract:       entry.Fields[fieldAbstract],
			KeyPoints:      entry.Fields[fieldKeyPoints],
			TechnicalTerms: entry.Fields[fieldTechnicalTerms],
			Relationships:  entry.Fields[fieldRelationships],
		}, entry.Score))
	}

	return docs
}

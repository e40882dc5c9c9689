package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/orbital-research/astra/internal/domain"
	"github.com/orbital-research/astra/internal/domain/augment"
	"github.com/orbital-research/astra/internal/domain/document"
	"github.com/orbital-research/astra/internal/usecase/prompt"
)

func TestRun_EmptyQuery(t *testing.T) {
	emb := &mockEmbedder{}
	ret := &mockRetriever{}
	svc := New(emb, ret, &mockFormatter{})

	for _, q := range []string{"", "   ", "\n\t"} {
		res, err := svc.Run(context.Background(), q)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
		if res.Message != MsgEmptyQuery {
			t.Errorf("query %q: unexpected message %q", q, res.Message)
		}
		if res.Request != nil {
			t.Errorf("query %q: expected no request", q)
		}
	}
	if emb.calls != 0 {
		t.Errorf("embedder must not be called for empty queries, got %d calls", emb.calls)
	}
	if ret.calls != 0 {
		t.Errorf("retriever must not be called for empty queries, got %d calls", ret.calls)
	}
}

func TestRun_EmbeddingFailure(t *testing.T) {
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, domain.ErrEmbeddingProvider
		},
	}
	ret := &mockRetriever{}
	svc := New(emb, ret, &mockFormatter{})

	res, err := svc.Run(context.Background(), "what is dark matter")
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	if res.Message != MsgEmbeddingFailed {
		t.Errorf("unexpected message %q", res.Message)
	}
	if ret.calls != 0 {
		t.Errorf("retriever must not run after an embedding failure")
	}
}

func TestRun_DimensionMismatchStopsPipeline(t *testing.T) {
	inner := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return embeddingOf(10), nil
		},
	}
	ret := &mockRetriever{}
	svc := New(domain.NewDimensionChecked(inner, 4096), ret, &mockFormatter{})

	res, err := svc.Run(context.Background(), "what is dark matter")
	if !errors.Is(err, domain.ErrEmbeddingDimMismatch) {
		t.Fatalf("expected ErrEmbeddingDimMismatch, got %v", err)
	}
	if res.Message != MsgEmbeddingFailed {
		t.Errorf("unexpected message %q", res.Message)
	}
	if ret.calls != 0 {
		t.Errorf("retriever must never see a wrong-length vector")
	}
}

func TestRun_RetrievalFailure(t *testing.T) {
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return embeddingOf(4), nil
		},
	}
	ret := &mockRetriever{
		retrieveFn: func(_ context.Context, _ []float32) ([]document.Document, error) {
			return nil, domain.ErrRetrievalUnavailable
		},
	}
	svc := New(emb, ret, &mockFormatter{})

	res, err := svc.Run(context.Background(), "what is dark matter")
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
	if res.Message != MsgIndexUnavailable {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestRun_NoResults(t *testing.T) {
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			return embeddingOf(4), nil
		},
	}
	ret := &mockRetriever{
		retrieveFn: func(_ context.Context, _ []float32) ([]document.Document, error) {
			return nil, nil
		},
	}
	fm := &mockFormatter{}
	svc := New(emb, ret, fm)

	res, err := svc.Run(context.Background(), "what is dark matter")
	if err != nil {
		t.Fatalf("an empty result set is not an error, got %v", err)
	}
	if res.Message != MsgNoResults {
		t.Errorf("unexpected message %q", res.Message)
	}
	if fm.contextCalls != 0 || fm.metaCalls != 0 {
		t.Errorf("formatter must not run with zero documents")
	}
}

func TestRun_AnsweredEndToEnd(t *testing.T) {
	const query = "What is the evidence for dark matter?"

	emb := &mockEmbedder{
		embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
			if text != query {
				t.Errorf("embedder received %q", text)
			}
			return embeddingOf(4), nil
		},
	}
	ret := &mockRetriever{
		retrieveFn: func(_ context.Context, vector []float32) ([]document.Document, error) {
			if len(vector) != 4 {
				t.Errorf("retriever received %d-dim vector", len(vector))
			}
			return []document.Document{
				document.Reconstruct("doc:1", document.Fields{
					Source:    "2023_dark_matter_survey",
					Abstract:  "A survey of dark matter evidence.",
					Text:      "Rotation curves stay flat at large radii.",
					KeyPoints: "halo models; rotation curves",
				}, 0.5),
				document.Reconstruct("doc:2", document.Fields{
					Source:  "2019_galactic_rotation",
					Summary: "Rotation curve measurements.",
				}, 1.8),
			}, nil
		},
	}
	svc := New(emb, ret, prompt.New(1000, 200, ";"))

	res, err := svc.Run(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message != "" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	req := res.Request
	if req == nil {
		t.Fatal("expected an augmented request")
	}

	if len(req.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != augment.RoleSystem {
		t.Errorf("first message role %q", req.Messages[0].Role)
	}
	user := req.Messages[1]
	if user.Role != augment.RoleUser {
		t.Errorf("second message role %q", user.Role)
	}
	if !strings.Contains(user.Content, "Question: "+query) {
		t.Errorf("user turn missing the question:\n%s", user.Content)
	}
	first := strings.Index(user.Content, "Document 1 (2023, 2023_dark_matter_survey):")
	second := strings.Index(user.Content, "Document 2 (2019, 2019_galactic_rotation):")
	if first < 0 || second < 0 || second < first {
		t.Errorf("context sections missing or out of ascending-score order:\n%s", user.Content)
	}

	md := req.Metadata
	if md.TotalSources != 2 {
		t.Errorf("total_sources = %d", md.TotalSources)
	}
	if md.AverageScore != 1.15 {
		t.Errorf("average_score = %g", md.AverageScore)
	}
	if len(md.Sources) != 2 {
		t.Fatalf("expected 2 source entries, got %d", len(md.Sources))
	}
	if md.Sources[0].Source != "2023_dark_matter_survey (2023)" {
		t.Errorf("unexpected source label %q", md.Sources[0].Source)
	}
	if md.Sources[0].Score != 0.5 || md.Sources[1].Score != 1.8 {
		t.Errorf("scores out of order: %+v", md.Sources)
	}
	if md.Timestamp.IsZero() {
		t.Errorf("timestamp not set")
	}
	if md.ElapsedMS < 0 {
		t.Errorf("negative elapsed time %d", md.ElapsedMS)
	}
}

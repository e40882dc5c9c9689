package astra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for empty base URL")
	}
}

func TestQuery_Answered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "what is dark matter" {
			t.Errorf("unexpected query %q", req.Query)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"messages": [
				{"role": "system", "content": "instructions"},
				{"role": "user", "content": "context and question"}
			],
			"metadata": {"sources": [], "total_sources": 2, "average_score": 1.15, "elapsed_ms": 42}
		}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	res, err := client.Query(context.Background(), "what is dark matter")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Request == nil {
		t.Fatal("expected an augmented request")
	}
	if len(res.Request.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(res.Request.Messages))
	}
	if res.Request.Metadata.TotalSources != 2 {
		t.Errorf("unexpected metadata %+v", res.Request.Metadata)
	}
	if res.Message != "" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestQuery_NoResultsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "nothing relevant"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	res, err := client.Query(context.Background(), "obscure")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Request != nil {
		t.Error("expected no request")
	}
	if res.Message != "nothing relevant" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestQuery_StatusToSentinel(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"bad request", http.StatusBadRequest, ErrEmptyQuery},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"bad gateway", http.StatusBadGateway, ErrEmbeddingFailed},
		{"unavailable", http.StatusServiceUnavailable, ErrRetrievalUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message": "server says no"}`))
			}))
			defer srv.Close()

			client, err := New(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			_, err = client.Query(context.Background(), "q")
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.StatusCode != tc.status || apiErr.Message != "server says no" {
				t.Errorf("unexpected APIError %+v", apiErr)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status": "degraded", "store": "degraded", "embedder": "ok"}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	want := HealthStatus{Status: "degraded", Store: "degraded", Embedder: "ok"}
	if status != want {
		t.Errorf("got %+v, want %+v", status, want)
	}
}

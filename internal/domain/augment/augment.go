// Package augment defines the augmented request produced for the downstream
// chat/completion consumer. It is the sole output contract of the pipeline.
package augment

import "time"

// Chat roles for the message list.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn of the downstream chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SourceMeta is the compact, user-facing record for one retrieved document.
type SourceMeta struct {
	Source         string  `json:"source"`
	Summary        string  `json:"summary,omitempty"`
	KeyPoints      string  `json:"key_points,omitempty"`
	TechnicalTerms string  `json:"technical_terms,omitempty"`
	Score          float64 `json:"score"`
}

// Metadata describes one pipeline run: what was retrieved and how long it took.
type Metadata struct {
	Sources      []SourceMeta `json:"sources"`
	Timestamp    time.Time    `json:"timestamp"`
	TotalSources int          `json:"total_sources"`
	AverageScore float64      `json:"average_score"`
	ElapsedMS    int64        `json:"elapsed_ms"`
}

// Request is the augmented chat request: a system instruction plus a user
// turn interpolating the retrieved context and the original query.
type Request struct {
	Messages []Message `json:"messages"`
	Metadata Metadata  `json:"metadata"`
}

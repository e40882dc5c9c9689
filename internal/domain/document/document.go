package document

import "strings"

// UnknownYear is the placeholder for sources without a recognizable year prefix.
const UnknownYear = "Unknown"

// Fields carries the raw field values read from an index record.
// Missing fields stay empty; the Document accessors substitute placeholders.
type Fields struct {
	Source         string
	Text           string
	Summary        string
	Abstract       string
	KeyPoints      string
	TechnicalTerms string
	Relationships  string
}

// Document is a retrieved index record with its similarity distance
// (immutable value object, read-only to the pipeline).
type Document struct {
	id     string
	fields Fields
	score  float64
}

// Reconstruct creates a Document from index hydration. Absent fields are
// legitimate and map to empty strings, never an error.
func Reconstruct(id string, fields Fields, score float64) Document {
	return Document{id: id, fields: fields, score: score}
}

// ID returns the index record key.
func (d *Document) ID() string { return d.id }

// Score returns the similarity distance (L2, smaller is more similar).
func (d *Document) Score() float64 { return d.score }

// Source returns the source label.
func (d *Document) Source() string { return orPlaceholder(d.fields.Source, "Unknown source") }

// Text returns the full document text.
func (d *Document) Text() string { return d.fields.Text }

// Summary returns the short summary.
func (d *Document) Summary() string { return d.fields.Summary }

// Abstract returns the abstract.
func (d *Document) Abstract() string { return orPlaceholder(d.fields.Abstract, "No abstract") }

// KeyPoints returns the delimiter-joined key points string.
func (d *Document) KeyPoints() string { return d.fields.KeyPoints }

// TechnicalTerms returns the delimiter-joined technical terms string.
func (d *Document) TechnicalTerms() string { return d.fields.TechnicalTerms }

// Relationships returns the relationship notes.
func (d *Document) Relationships() string { return d.fields.Relationships }

// Year derives a publication year from a year-prefixed source label
// ("2023_dark_matter_survey" -> "2023"). Advisory metadata only: labels that
// do not follow the convention yield UnknownYear.
func (d *Document) Year() string {
	token := d.fields.Source
	if i := strings.IndexAny(token, "_-"); i >= 0 {
		token = token[:i]
	}
	if len(token) != 4 {
		return UnknownYear
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return UnknownYear
		}
	}
	return token
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

package prompt

import (
	"fmt"
	"strings"

	"github.com/orbital-research/astra/internal/domain/augment"
	"github.com/orbital-research/astra/internal/domain/document"
)

// NotAvailable is rendered when a list field carries no usable entries.
const NotAvailable = "Not available"

// Formatter renders retrieved documents into the two context tiers: a
// verbose block for the model prompt and compact per-source metadata for
// response diagnostics.
type Formatter struct {
	longExcerpt  int
	shortExcerpt int
	separator    string
}

func New(longExcerpt, shortExcerpt int, separator string) *Formatter {
	return &Formatter{
		longExcerpt:  longExcerpt,
		shortExcerpt: shortExcerpt,
		separator:    separator,
	}
}

// ModelContext renders the documents as numbered sections for the prompt.
// The caller guarantees docs is non-empty.
func (f *Formatter) ModelContext(docs []document.Document) string {
	var b strings.Builder
	for i := range docs {
		doc := &docs[i]

		fmt.Fprintf(&b, "Document %d (%s, %s):\n", i+1, doc.Year(), doc.Source())
		b.WriteString(truncate(doc.Abstract(), f.longExcerpt))
		b.WriteString("\n\n")

		b.WriteString("Key Points:\n")
		b.WriteString(f.bulletList(doc.KeyPoints()))
		b.WriteString("\n\n")

		b.WriteString("Technical Terms:\n")
		b.WriteString(f.bulletList(doc.TechnicalTerms()))
		b.WriteString("\n\n")

		b.WriteString("Related Concepts:\n")
		b.WriteString(f.bulletList(doc.Relationships()))
		b.WriteString("\n\n")

		b.WriteString("Most Relevant Text:\n")
		b.WriteString(truncate(doc.Text(), f.longExcerpt))
		b.WriteString("\n\n")

		fmt.Fprintf(&b, "Relevance Score: %.2f\n", doc.Score())
		b.WriteString("---\n")
	}
	return b.String()
}

// SourceMetadata renders the compact per-document companion to ModelContext.
func (f *Formatter) SourceMetadata(docs []document.Document) []augment.SourceMeta {
	metas := make([]augment.SourceMeta, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		metas = append(metas, augment.SourceMeta{
			Source:         fmt.Sprintf("%s (%s)", doc.Source(), doc.Year()),
			Summary:        truncate(doc.Summary(), f.shortExcerpt),
			KeyPoints:      doc.KeyPoints(),
			TechnicalTerms: doc.TechnicalTerms(),
			Score:          doc.Score(),
		})
	}
	return metas
}

// bulletList splits a separator-joined field into "• " lines. Blank entries
// are dropped; a field with no usable entries renders as NotAvailable.
func (f *Formatter) bulletList(raw string) string {
	var lines []string
	for _, item := range strings.Split(raw, f.separator) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lines = append(lines, "• "+item)
	}
	if len(lines) == 0 {
		return NotAvailable
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most cutoff runes, appending a marker when text
// was dropped. Rune-based so multi-byte text never splits mid-character.
func truncate(s string, cutoff int) string {
	runes := []rune(s)
	if len(runes) <= cutoff {
		return s
	}
	return string(runes[:cutoff]) + "..."
}

package docsearch

import domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"

// Document is a normalized search result. Nil fields were absent in the store.
type Document struct {
	ID         string
	Title      *string
	URL        *string
	Content    *string
	Category   *string
	Date       *string // YYYY-MM-DD
	Source     *string
	Location   *string
	Highlights []Highlight
}

// Highlight is one matched region. A query-derived highlight has an empty
// Path and a Score of 6.
type Highlight struct {
	Path    string
	Score   float64
	Content string
	Texts   []HighlightText
}

// HighlightText is a fragment of a store highlight; Type is "hit" or "text".
type HighlightText struct {
	Value string
	Type  string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

func documentFromDomain(d *domdoc.Document) Document {
	f := d.Fields()
	hs := d.Highlights()
	out := Document{
		ID:         d.ID(),
		Title:      f.Title,
		URL:        f.URL,
		Content:    f.Content,
		Category:   f.Category,
		Date:       f.Date,
		Source:     f.Source,
		Location:   f.Location,
		Highlights: make([]Highlight, len(hs)),
	}
	for i := range hs {
		h := &hs[i]
		texts := h.Texts()
		ht := make([]HighlightText, len(texts))
		for j, t := range texts {
			ht[j] = HighlightText{Value: t.Value, Type: t.Type}
		}
		out.Highlights[i] = Highlight{Path: h.Path(), Score: h.Score(), Content: h.Content(), Texts: ht}
	}
	return out
}

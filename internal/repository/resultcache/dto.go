package resultcache

import (
	"encoding/json"
	"fmt"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

type docDTO struct {
	ID         string         `json:"id"`
	Title      *string        `json:"title,omitempty"`
	URL        *string        `json:"url,omitempty"`
	Content    *string        `json:"content,omitempty"`
	Category   *string        `json:"category,omitempty"`
	Date       *string        `json:"date,omitempty"`
	Source     *string        `json:"source,omitempty"`
	Location   *string        `json:"location,omitempty"`
	Highlights []highlightDTO `json:"highlights"`
}

type highlightDTO struct {
	Path    string    `json:"path"`
	Score   float64   `json:"score"`
	Content string    `json:"content"`
	Texts   []textDTO `json:"texts,omitempty"`
}

type textDTO struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// encodeDoc serializes a document as a hash field value.
func encodeDoc(doc *domdoc.Document) (string, error) {
	f := doc.Fields()
	dto := docDTO{
		ID:       doc.ID(),
		Title:    f.Title,
		URL:      f.URL,
		Content:  f.Content,
		Category: f.Category,
		Date:     f.Date,
		Source:   f.Source,
		Location: f.Location,
	}
	hs := doc.Highlights()
	dto.Highlights = make([]highlightDTO, len(hs))
	for i := range hs {
		h := &hs[i]
		texts := h.Texts()
		hd := highlightDTO{Path: h.Path(), Score: h.Score(), Content: h.Content()}
		for _, t := range texts {
			hd.Texts = append(hd.Texts, textDTO{Value: t.Value, Type: t.Type})
		}
		dto.Highlights[i] = hd
	}

	b, err := json.Marshal(dto)
	if err != nil {
		return "", fmt.Errorf("marshal cached document %s: %w", doc.ID(), err)
	}
	return string(b), nil
}

// decodeDoc restores a document from a hash field value.
func decodeDoc(raw string) (domdoc.Document, error) {
	var dto docDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return domdoc.Document{}, fmt.Errorf("unmarshal cached document: %w", err)
	}

	hs := make([]domdoc.Highlight, len(dto.Highlights))
	for i, h := range dto.Highlights {
		var texts []domdoc.Text
		for _, t := range h.Texts {
			texts = append(texts, domdoc.Text{Value: t.Value, Type: t.Type})
		}
		hs[i] = domdoc.NewHighlight(h.Path, h.Score, h.Content, texts)
	}

	return domdoc.Reconstruct(dto.ID, domdoc.Fields{
		Title:    dto.Title,
		URL:      dto.URL,
		Content:  dto.Content,
		Category: dto.Category,
		Date:     dto.Date,
		Source:   dto.Source,
		Location: dto.Location,
	}, hs), nil
}

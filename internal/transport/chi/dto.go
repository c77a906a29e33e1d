package chi

import (
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

type connectRequest struct {
	URI            string `json:"uri"`
	DBName         string `json:"dbName,omitempty"`
	CollectionName string `json:"collectionName,omitempty"`
}

type connectResponse struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
}

type statusResponse struct {
	Connected bool `json:"connected"`
}

type searchRequest struct {
	Query          string `json:"query"`
	IsHybridSearch bool   `json:"isHybridSearch,omitempty"`
	Limit          *int   `json:"limit,omitempty"`
}

type searchResponse struct {
	Results []documentResponse `json:"results"`
}

// documentResponse renders absent optional fields as null.
type documentResponse struct {
	ID         string              `json:"id"`
	Title      *string             `json:"title"`
	URL        *string             `json:"url"`
	Content    *string             `json:"content"`
	Category   *string             `json:"category"`
	Date       *string             `json:"date"`
	Source     *string             `json:"source"`
	Location   *string             `json:"location"`
	Highlights []highlightResponse `json:"highlights"`
}

type highlightResponse struct {
	Path    string         `json:"path,omitempty"`
	Score   float64        `json:"score"`
	Content string         `json:"content,omitempty"`
	Texts   []textResponse `json:"texts,omitempty"`
}

type textResponse struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	f := doc.Fields()
	hs := doc.Highlights()
	out := documentResponse{
		ID:         doc.ID(),
		Title:      f.Title,
		URL:        f.URL,
		Content:    f.Content,
		Category:   f.Category,
		Date:       f.Date,
		Source:     f.Source,
		Location:   f.Location,
		Highlights: make([]highlightResponse, len(hs)),
	}
	for i := range hs {
		h := &hs[i]
		hr := highlightResponse{Path: h.Path(), Score: h.Score(), Content: h.Content()}
		for _, t := range h.Texts() {
			hr.Texts = append(hr.Texts, textResponse{Value: t.Value, Type: t.Type})
		}
		out.Highlights[i] = hr
	}
	return out
}

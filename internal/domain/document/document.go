package document

// SyntheticScore is the score given to the highlight synthesized from the
// query when the store supplies none.
const SyntheticScore = 6

// Fields holds the optional public fields of a document. Nil means absent.
type Fields struct {
	Title    *string
	URL      *string
	Content  *string
	Category *string
	Date     *string
	Source   *string
	Location *string
}

// Document is the public, normalized shape of one search hit (immutable value object).
type Document struct {
	id         string
	fields     Fields
	highlights []Highlight
}

// Reconstruct creates a Document from already-normalized parts (cache hydration).
func Reconstruct(id string, fields Fields, highlights []Highlight) Document {
	return Document{id: id, fields: cloneFields(fields), highlights: cloneHighlights(highlights)}
}

// ID returns the string form of the store identifier.
func (d *Document) ID() string { return d.id }

// Title returns the document title.
func (d *Document) Title() (string, bool) { return deref(d.fields.Title) }

// URL returns the document URL.
func (d *Document) URL() (string, bool) { return deref(d.fields.URL) }

// Content returns the document text.
func (d *Document) Content() (string, bool) { return deref(d.fields.Content) }

// Category returns the document category.
func (d *Document) Category() (string, bool) { return deref(d.fields.Category) }

// Date returns the decoded ISO-like date.
func (d *Document) Date() (string, bool) { return deref(d.fields.Date) }

// Source returns the document source.
func (d *Document) Source() (string, bool) { return deref(d.fields.Source) }

// Location returns the derived "country - city" location.
func (d *Document) Location() (string, bool) { return deref(d.fields.Location) }

// Fields returns a copy of the optional fields.
func (d *Document) Fields() Fields { return cloneFields(d.fields) }

// Highlights returns a copy of the highlight spans. Never nil.
func (d *Document) Highlights() []Highlight {
	out := cloneHighlights(d.highlights)
	if out == nil {
		out = []Highlight{}
	}
	return out
}

// Highlight is a scored fragment of matched text tied to a field.
type Highlight struct {
	path    string
	score   float64
	content string
	texts   []Text
}

// Text is one fragment of a store-supplied highlight.
type Text struct {
	Value string
	Type  string
}

// NewHighlight creates a highlight span. path may be empty for spans not tied to a field.
func NewHighlight(path string, score float64, content string, texts []Text) Highlight {
	return Highlight{path: path, score: score, content: content, texts: append([]Text(nil), texts...)}
}

// Path returns the highlighted field, empty for synthetic spans.
func (h *Highlight) Path() string { return h.path }

// Score returns the span score.
func (h *Highlight) Score() float64 { return h.score }

// Content returns the span text.
func (h *Highlight) Content() string { return h.content }

// Texts returns the constituent fragments, if the store supplied them.
func (h *Highlight) Texts() []Text { return append([]Text(nil), h.texts...) }

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFields(f Fields) Fields {
	return Fields{
		Title:    clonePtr(f.Title),
		URL:      clonePtr(f.URL),
		Content:  clonePtr(f.Content),
		Category: clonePtr(f.Category),
		Date:     clonePtr(f.Date),
		Source:   clonePtr(f.Source),
		Location: clonePtr(f.Location),
	}
}

func cloneHighlights(hs []Highlight) []Highlight {
	if hs == nil {
		return nil
	}
	out := make([]Highlight, len(hs))
	for i, h := range hs {
		out[i] = NewHighlight(h.path, h.score, h.content, h.texts)
	}
	return out
}

package document

import (
	"strings"

	"github.com/kailas-cloud/docsearch/internal/domain/datecode"
	"github.com/kailas-cloud/docsearch/internal/domain/fieldmap"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

// titlePath is the highlight path whose content is never synthesized.
const titlePath = "title"

// DecodeSkippedFunc is notified when a present date code cannot be decoded.
type DecodeSkippedFunc func(id string, err error)

// Formatter maps raw store records onto the public Document shape.
type Formatter struct {
	fields          fieldmap.Mapping
	onDecodeSkipped DecodeSkippedFunc
}

// NewFormatter creates a formatter for the given field mapping.
func NewFormatter(fields fieldmap.Mapping) *Formatter {
	return &Formatter{fields: fields}
}

// OnDecodeSkipped installs a hook for recoverable date decode failures.
func (f *Formatter) OnDecodeSkipped(fn DecodeSkippedFunc) *Formatter {
	f.onDecodeSkipped = fn
	return f
}

// Format builds a Document from raw. query is the original search text; it is
// only used to synthesize a highlight when raw carries none. Pass "" for none.
func (f *Formatter) Format(raw record.Record, query string) Document {
	id := raw.ID()

	date := f.date(raw, id)

	return Document{
		id: id,
		fields: Fields{
			Title:    f.str(raw, f.fields.Title),
			URL:      f.str(raw, f.fields.URL),
			Content:  f.str(raw, f.fields.Content),
			Category: f.str(raw, f.fields.Category),
			Date:     date,
			Source:   f.str(raw, f.fields.Source),
			Location: f.location(raw),
		},
		highlights: reconcileHighlights(raw, query),
	}
}

// date decodes the date code field, or copies the plain date field when
// the mapping has no date code.
func (f *Formatter) date(raw record.Record, id string) *string {
	if f.fields.DateCode == "" {
		return f.str(raw, f.fields.Date)
	}
	d, ok, err := datecode.Decode(raw[f.fields.DateCode])
	if ok {
		return &d
	}
	if err != nil && f.onDecodeSkipped != nil {
		f.onDecodeSkipped(id, err)
	}
	return nil
}

func (f *Formatter) str(raw record.Record, key string) *string {
	s, ok := raw.String(key)
	if !ok {
		return nil
	}
	return &s
}

// location combines country and city. Empty values count as missing.
func (f *Formatter) location(raw record.Record) *string {
	country, hasCountry := raw.NonEmptyString(f.fields.Country)
	city, hasCity := raw.NonEmptyString(f.fields.City)

	var loc string
	switch {
	case hasCountry && hasCity:
		loc = country + " - " + city
	case hasCountry:
		loc = country
	case hasCity:
		loc = city
	default:
		return nil
	}
	return &loc
}

func reconcileHighlights(raw record.Record, query string) []Highlight {
	if spans, ok := raw.Highlights(); ok {
		out := make([]Highlight, 0, len(spans))
		for _, s := range spans {
			texts := make([]Text, len(s.Texts))
			for i, t := range s.Texts {
				texts[i] = Text{Value: t.Value, Type: t.Type}
			}
			var content string
			if s.Path != titlePath {
				var b strings.Builder
				for _, t := range s.Texts {
					b.WriteString(t.Value)
				}
				content = b.String()
			}
			out = append(out, NewHighlight(s.Path, s.Score, content, texts))
		}
		return out
	}
	if query != "" {
		return []Highlight{NewHighlight("", SyntheticScore, query, nil)}
	}
	return []Highlight{}
}

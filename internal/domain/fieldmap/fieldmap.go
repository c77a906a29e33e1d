// Package fieldmap describes how store fields project onto the public
// document shape and which fields each search mode looks at.
//
// Different deployments store the same logical document under different
// field names; a Mapping captures that difference as data.
package fieldmap

import (
	"fmt"
	"sort"
)

// Profile names.
const (
	ProfileTeachings = "teachings"
	ProfileArticles  = "articles"
)

// Mapping maps public document fields to store field names.
// An empty source name means the public field is never populated.
type Mapping struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	// DateCode holds a YYMMDD code decoded into an ISO date.
	DateCode string `yaml:"date_code"`
	// Date holds a date copied verbatim. Ignored when DateCode is set.
	Date     string `yaml:"date"`
	Source   string `yaml:"source"`
	Country  string `yaml:"country"`
	City     string `yaml:"city"`

	// AppID is the application-level identifier field used for lookups
	// that do not look like a native ObjectID.
	AppID string `yaml:"app_id"`

	// RankedPaths are searched in ranked mode. The first path is the title
	// path and receives TitleBoost.
	RankedPaths []string `yaml:"ranked_paths"`
	// HighlightPaths are requested from the search engine in ranked mode.
	HighlightPaths []string `yaml:"highlight_paths"`
	// FallbackPaths are matched by the substring predicate in fallback mode.
	FallbackPaths []string `yaml:"fallback_paths"`

	TitleBoost   float64 `yaml:"title_boost"`
	DefaultLimit int     `yaml:"default_limit"`
}

var profiles = map[string]Mapping{
	ProfileTeachings: {
		Title:          "title",
		Content:        "content",
		URL:            "url",
		Category:       "Talk Type",
		DateCode:       "Date Code",
		Source:         "Text source",
		Country:        "Country",
		City:           "City",
		AppID:          "id",
		RankedPaths:    []string{"title", "content", "tags"},
		HighlightPaths: []string{"title", "content"},
		FallbackPaths:  []string{"title", "content", "url"},
		TitleBoost:     3,
		DefaultLimit:   300,
	},
	ProfileArticles: {
		Title:          "title",
		Content:        "content",
		URL:            "url",
		Category:       "category",
		Date:           "date",
		Source:         "author",
		Country:        "country",
		City:           "city",
		AppID:          "id",
		RankedPaths:    []string{"title", "content", "tags"},
		HighlightPaths: []string{"title", "content"},
		FallbackPaths:  []string{"title", "content", "author", "category", "tags"},
		TitleBoost:     3,
		DefaultLimit:   20,
	},
}

// Profile returns a copy of the named built-in mapping.
func Profile(name string) (Mapping, error) {
	m, ok := profiles[name]
	if !ok {
		return Mapping{}, fmt.Errorf("unknown field profile %q (known: %v)", name, ProfileNames())
	}
	return m.clone(), nil
}

// ProfileNames lists the built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge returns m with every non-zero field of o applied on top.
func (m Mapping) Merge(o Mapping) Mapping {
	out := m.clone()
	setIf(&out.Title, o.Title)
	setIf(&out.Content, o.Content)
	setIf(&out.URL, o.URL)
	setIf(&out.Category, o.Category)
	setIf(&out.DateCode, o.DateCode)
	setIf(&out.Date, o.Date)
	setIf(&out.Source, o.Source)
	setIf(&out.Country, o.Country)
	setIf(&out.City, o.City)
	setIf(&out.AppID, o.AppID)
	if len(o.RankedPaths) > 0 {
		out.RankedPaths = append([]string(nil), o.RankedPaths...)
	}
	if len(o.HighlightPaths) > 0 {
		out.HighlightPaths = append([]string(nil), o.HighlightPaths...)
	}
	if len(o.FallbackPaths) > 0 {
		out.FallbackPaths = append([]string(nil), o.FallbackPaths...)
	}
	if o.TitleBoost > 0 {
		out.TitleBoost = o.TitleBoost
	}
	if o.DefaultLimit > 0 {
		out.DefaultLimit = o.DefaultLimit
	}
	return out
}

// Validate checks that the mapping can drive both search modes.
func (m Mapping) Validate() error {
	if len(m.RankedPaths) == 0 {
		return fmt.Errorf("ranked_paths must not be empty")
	}
	if len(m.FallbackPaths) == 0 {
		return fmt.Errorf("fallback_paths must not be empty")
	}
	if m.TitleBoost <= 0 {
		return fmt.Errorf("title_boost must be positive, got %v", m.TitleBoost)
	}
	if m.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", m.DefaultLimit)
	}
	return nil
}

// SourceFields returns the distinct non-empty store fields the public
// document is built from, in a stable order.
func (m Mapping) SourceFields() []string {
	candidates := []string{m.Title, m.Content, m.URL, m.Category, m.DateCode, m.Date, m.Source, m.Country, m.City}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, f := range candidates {
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func (m Mapping) clone() Mapping {
	m.RankedPaths = append([]string(nil), m.RankedPaths...)
	m.HighlightPaths = append([]string(nil), m.HighlightPaths...)
	m.FallbackPaths = append([]string(nil), m.FallbackPaths...)
	return m
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

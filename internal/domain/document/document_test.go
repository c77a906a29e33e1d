package document

import "testing"

func strp(s string) *string { return &s }

func TestReconstruct_ClonesInputs(t *testing.T) {
	title := "original"
	fields := Fields{Title: &title}
	hs := []Highlight{NewHighlight("content", 1, "x", []Text{{Value: "x", Type: "hit"}})}

	doc := Reconstruct("1", fields, hs)
	title = "mutated"
	hs[0] = NewHighlight("other", 9, "y", nil)

	if got, _ := doc.Title(); got != "original" {
		t.Errorf("Title() = %q, mutation leaked", got)
	}
	got := doc.Highlights()
	if got[0].Path() != "content" || got[0].Content() != "x" {
		t.Errorf("highlight mutation leaked: %+v", got[0])
	}
}

func TestGetters_Absent(t *testing.T) {
	doc := Reconstruct("1", Fields{}, nil)
	getters := map[string]func() (string, bool){
		"Title":    doc.Title,
		"URL":      doc.URL,
		"Content":  doc.Content,
		"Category": doc.Category,
		"Date":     doc.Date,
		"Source":   doc.Source,
		"Location": doc.Location,
	}
	for name, g := range getters {
		if v, ok := g(); ok || v != "" {
			t.Errorf("%s() = (%q, %v), want absent", name, v, ok)
		}
	}
	if hs := doc.Highlights(); hs == nil || len(hs) != 0 {
		t.Errorf("Highlights() = %v, want empty non-nil", hs)
	}
}

func TestGetters_Present(t *testing.T) {
	doc := Reconstruct("1", Fields{
		Title: strp("t"), URL: strp("u"), Content: strp("c"), Category: strp("cat"),
		Date: strp("1985-03-15"), Source: strp("s"), Location: strp("France - Paris"),
	}, nil)
	if v, _ := doc.Location(); v != "France - Paris" {
		t.Errorf("Location() = %q", v)
	}
	if v, _ := doc.Date(); v != "1985-03-15" {
		t.Errorf("Date() = %q", v)
	}
	f := doc.Fields()
	*f.Title = "changed"
	if v, _ := doc.Title(); v != "t" {
		t.Error("Fields() must return a copy")
	}
}

func TestHighlight_TextsCopy(t *testing.T) {
	h := NewHighlight("content", 2, "ab", []Text{{Value: "a"}, {Value: "b"}})
	texts := h.Texts()
	texts[0].Value = "z"
	if h.Texts()[0].Value != "a" {
		t.Error("Texts() must return a copy")
	}
}

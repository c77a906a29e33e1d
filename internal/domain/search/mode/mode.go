package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Ranked is relevance-scored full-text search against a named search index.
	Ranked Mode = "ranked"
	// Fallback is a case-insensitive substring match across a fixed field list.
	Fallback Mode = "fallback"
)

// FromHybridFlag maps the client's isHybridSearch flag onto a mode.
func FromHybridFlag(hybrid bool) Mode {
	if hybrid {
		return Ranked
	}
	return Fallback
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Ranked || m == Fallback
}

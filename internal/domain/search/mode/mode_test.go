package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Ranked, Fallback}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "hybrid", "keyword", "RANKED"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestFromHybridFlag(t *testing.T) {
	if FromHybridFlag(true) != Ranked {
		t.Error("hybrid=true should map to Ranked")
	}
	if FromHybridFlag(false) != Fallback {
		t.Error("hybrid=false should map to Fallback")
	}
}

package common

import "testing"

func TestHasAny(t *testing.T) {
	if !HasAny("text/html, Application/JSON;q=0.9", "application/json") {
		t.Fatalf("expected a case-insensitive match")
	}
	if HasAny("text/csv", "application/json", "+json") {
		t.Fatalf("expected no match")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" Paris,, Oslo ,")
	if len(got) != 2 || got[0] != "Paris" || got[1] != "Oslo" {
		t.Fatalf("unexpected split %v", got)
	}
	if SplitList("") != nil {
		t.Fatalf("expected nil for an empty list")
	}
}

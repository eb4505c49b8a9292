package knowledge

import (
	"strings"
	"testing"
)

func TestRender_UnboundedKeepsAppendOrder(t *testing.T) {
	b := NewBlock(0)
	b.Add(0.2, "first")
	b.Add(0.9, "second")
	b.Add(0.1, "third")

	got := b.Render()
	want := "first\nsecond\nthird\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRender_DropsLowestRankedWholeFragments(t *testing.T) {
	b := NewBlock(16)
	b.Add(0.9, "keep me")  // 8 chars with newline
	b.Add(0.1, "drop me")  // lowest rank
	b.Add(0.5, "also in") // 8 chars with newline

	got := b.Render()
	if strings.Contains(got, "drop me") {
		t.Errorf("lowest-ranked fragment survived: %q", got)
	}
	if !strings.Contains(got, "keep me") || !strings.Contains(got, "also in") {
		t.Errorf("higher-ranked fragments dropped: %q", got)
	}
	if len(got) > 16 {
		t.Errorf("rendered length %d exceeds budget", len(got))
	}
}

func TestRender_NeverTruncatesMidFragment(t *testing.T) {
	b := NewBlock(10)
	b.Add(0.5, "0123456789abcdef") // alone it exceeds the budget

	got := b.Render()
	if got != "" {
		t.Fatalf("expected oversized fragment dropped whole, got %q", got)
	}
}

func TestRender_EqualRankDropsLaterFirst(t *testing.T) {
	b := NewBlock(8)
	b.Add(0.5, "early")
	b.Add(0.5, "later")

	got := b.Render()
	if got != "early\n" {
		t.Fatalf("expected later fragment dropped on rank tie, got %q", got)
	}
}

func TestRender_MaxRankSurvives(t *testing.T) {
	b := NewBlock(12)
	b.Add(0.9, "scored text")
	b.Add(MaxRank, "Question: x")

	got := b.Render()
	if !strings.Contains(got, "Question: x") {
		t.Fatalf("max-rank fragment dropped: %q", got)
	}
}

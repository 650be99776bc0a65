package content_test

import (
	"testing"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

func TestMatchFieldPrefersExactKeysInCandidateOrder(t *testing.T) {
	values := map[string]string{
		"Name":  "folded",
		"title": "exact",
	}
	key, value, ok := content.MatchField(values, []string{"name", "title"}, nil)
	if !ok || key != "title" || value != "exact" {
		t.Fatalf("expected exact title match, got key=%q value=%q ok=%v", key, value, ok)
	}
}

func TestMatchFieldFallsBackToFoldedKeys(t *testing.T) {
	values := map[string]int{"공개 여부": 1}
	key, value, ok := content.MatchField(values, []string{"공개여부"}, nil)
	if !ok || key != "공개 여부" || value != 1 {
		t.Fatalf("expected space-insensitive match, got key=%q value=%d ok=%v", key, value, ok)
	}
}

func TestMatchFieldSkipsAbsentValues(t *testing.T) {
	values := map[string]any{"summary": "  ", "description": "desc"}
	present := func(v any) bool {
		s, _ := v.(string)
		return len(s) > 0 && s != "  "
	}
	_, value, ok := content.MatchField(values, []string{"summary", "description"}, present)
	if !ok || value != "desc" {
		t.Fatalf("expected description fallback, got %v", value)
	}
}

func TestAliasTableCandidates(t *testing.T) {
	got := content.RecordAliases.Candidates(content.FieldDate)
	want := []string{"date", "created_time", "last_edited_time"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if content.RecordAliases.Candidates("unknown") != nil {
		t.Fatal("expected nil for unknown field")
	}
}

func TestFoldKey(t *testing.T) {
	if got := content.FoldKey(" Last Edited\tTime "); got != "lasteditedtime" {
		t.Fatalf("unexpected fold %q", got)
	}
}

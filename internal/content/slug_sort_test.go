package content_test

import (
	"testing"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Hello World  ":          "hello-world",
		"Rock & Roll!":             "rock-roll",
		"snake_case--and  spaces": "snake-case-and-spaces",
		"--edge--":                 "edge",
		"2026년 1월 정기 모임":           "2026-1",
		"정기 모임":                    "",
	}
	for input, want := range cases {
		if got := content.Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSortByDateIsIdempotentAndDescending(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	items := []content.Item{
		{Slug: "b", Date: day(2)},
		{Slug: "zero"},
		{Slug: "c", Date: day(3)},
		{Slug: "a", Date: day(1)},
		{Slug: "c2", Date: day(3)},
	}

	once := content.SortByDate(items)
	twice := content.SortByDate(once)

	wantOrder := []string{"c", "c2", "b", "a", "zero"}
	for i, want := range wantOrder {
		if once[i].Slug != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, once[i].Slug)
		}
		if twice[i].Slug != once[i].Slug {
			t.Fatalf("expected idempotent sort at %d", i)
		}
	}
	if items[0].Slug != "b" {
		t.Fatal("expected input slice to be left untouched")
	}
}

func TestFindBySlug(t *testing.T) {
	if content.FindBySlug(nil, "a") != nil {
		t.Fatal("expected nil for empty collection")
	}
	items := []content.Item{{Slug: "a", Title: "A"}, {Slug: "b", Title: "B"}}
	if content.FindBySlug(items, "missing") != nil {
		t.Fatal("expected nil for absent slug")
	}
	found := content.FindBySlug(items, "b")
	if found == nil || found.Title != "B" {
		t.Fatalf("expected match, got %+v", found)
	}
	found.Title = "mutated"
	if items[1].Title != "B" {
		t.Fatal("expected FindBySlug to return a copy")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   any
		ok   bool
		want time.Time
	}{
		{"2026-01-15", true, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-01-15T09:30:00Z", true, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)},
		{"2026-01-15T09:30:00.123Z", true, time.Date(2026, 1, 15, 9, 30, 0, 123000000, time.UTC)},
		{float64(1768435200000), true, time.UnixMilli(1768435200000)},
		{"yesterday", false, time.Time{}},
		{nil, false, time.Time{}},
	}
	for _, tc := range cases {
		got, ok := content.ParseDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseDate(%v) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	local := time.Date(2026, time.January, 5, 15, 0, 0, 0, time.Local)
	if got := content.FormatDate(local); got != "2026년 1월 5일" {
		t.Fatalf("unexpected formatted date %q", got)
	}
	if got := content.FormatDate(time.Time{}); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
}

package transform_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/transform"
)

const notionExport = `{
  "results": [
    {
      "id": "1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809",
      "created_time": "2026-01-10T09:00:00.000Z",
      "last_edited_time": "2026-01-11T09:00:00.000Z",
      "properties": {
        "제목": {"type": "title", "title": [{"plain_text": "정기 "}, {"plain_text": "모임"}]},
        "날짜": {"type": "date", "date": {"start": "2026-01-15"}},
        "공개 여부": {"type": "status", "status": {"name": "비공개"}},
        "카테고리": {"type": "select", "select": {"name": "모임"}},
        "파일과 미디어": {"type": "files", "files": [{"type": "external", "external": {"url": "https://cdn.example.org/a.png"}}]}
      },
      "blocks": [
        {"type": "heading_2", "heading_2": {"rich_text": [{"plain_text": "안건"}]}},
        {"type": "bulleted_list_item", "bulleted_list_item": {"rich_text": [{"plain_text": "회비", "annotations": {"bold": true}}]}},
        {"type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "문의", "href": "https://example.org"}]}},
        {"type": "divider"}
      ]
    },
    {
      "id": "ffffffff-0000-0000-0000-000000000000",
      "properties": {
        "Name": {"type": "title", "title": [{"plain_text": "No date"}]}
      }
    }
  ]
}`

func decodeExport(t *testing.T) []transform.Page {
	t.Helper()
	pages, err := transform.DecodePages([]byte(notionExport))
	if err != nil {
		t.Fatalf("DecodePages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	return pages
}

func TestFromNotionPage(t *testing.T) {
	pages := decodeExport(t)
	record, err := transform.FromNotionPage(pages[0], nil)
	if err != nil {
		t.Fatalf("FromNotionPage: %v", err)
	}

	if record["title"] != "정기 모임" {
		t.Fatalf("unexpected title %v", record["title"])
	}
	if record["date"] != "2026-01-15T00:00:00.000Z" {
		t.Fatalf("unexpected date %v", record["date"])
	}
	if record["summary"] != "정기 모임" {
		t.Fatalf("summary should fall back to title, got %v", record["summary"])
	}
	if record["published"] != false {
		t.Fatalf("비공개 status must unpublish, got %v", record["published"])
	}
	if record["category"] != "모임" || record["image"] != "https://cdn.example.org/a.png" {
		t.Fatalf("unexpected optional fields %v %v", record["category"], record["image"])
	}
	if record["slug"] != "1a2b3c4d5e6f708192a3" {
		t.Fatalf("unexpected id slug %v", record["slug"])
	}
	body, _ := record["body"].(string)
	for _, fragment := range []string{"## 안건", "- **회비**", "[문의](https://example.org)", "---"} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}

	result := content.Normalize(record)
	if len(result.Errors) != 0 {
		t.Fatalf("transformed record should normalize, got %v", result.Errors)
	}
}

func TestFromNotionPageMissingRequired(t *testing.T) {
	pages := decodeExport(t)
	_, err := transform.FromNotionPage(pages[1], nil)
	if !errors.Is(err, transform.ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
	var pageErr *transform.PageError
	if !errors.As(err, &pageErr) || len(pageErr.Missing) != 1 || pageErr.Missing[0] != "date" {
		t.Fatalf("expected missing date, got %v", err)
	}
}

func TestPropertyPublished(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		name string
		prop *transform.Property
		want bool
	}{
		{"absent", nil, true},
		{"checked", &transform.Property{Type: "checkbox", Checkbox: &yes}, true},
		{"unchecked", &transform.Property{Type: "checkbox", Checkbox: &no}, false},
		{"public status", &transform.Property{Type: "status", Status: &transform.SelectOption{Name: "공개"}}, true},
		{"private status", &transform.Property{Type: "status", Status: &transform.SelectOption{Name: "Unpublished"}}, false},
		{"unknown status", &transform.Property{Type: "status", Status: &transform.SelectOption{Name: "검토중"}}, true},
		{"other type", &transform.Property{Type: "select"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := transform.PropertyPublished(tc.prop); got != tc.want {
				t.Fatalf("PropertyPublished = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRichTextMarkdownAnnotations(t *testing.T) {
	href := "https://example.org"
	got := transform.RichTextMarkdown([]transform.RichText{
		{PlainText: "a", Annotations: transform.Annotations{Bold: true, Italic: true}},
		{PlainText: " b", Href: &href},
	})
	if got != "***a***[ b](https://example.org)" {
		t.Fatalf("unexpected markdown %q", got)
	}
}

func TestBlocksToMarkdownCode(t *testing.T) {
	got := transform.BlocksToMarkdown([]transform.Block{
		{Type: "code", Code: &transform.TextBlock{Language: "go", RichText: []transform.RichText{{PlainText: "x := 1"}}}},
		{Type: "quote", Quote: &transform.TextBlock{RichText: []transform.RichText{{PlainText: "q"}}}},
		{Type: "image"},
	})
	if got != "```go\nx := 1\n```\n\n> q\n\n" {
		t.Fatalf("unexpected markdown %q", got)
	}
}

func TestIDSlug(t *testing.T) {
	if got := transform.IDSlug("abc-def"); got != "abcdef" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestTransformerPagesAndBuildDocument(t *testing.T) {
	tr := transform.New(transform.WithNow(func() time.Time {
		return time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	}))
	batch := tr.Pages(decodeExport(t))
	if len(batch.Records) != 1 || len(batch.Skipped) != 1 {
		t.Fatalf("unexpected batch %d records %d skipped", len(batch.Records), len(batch.Skipped))
	}
	if batch.Status() != content.SyncPartial {
		t.Fatalf("expected partial status, got %q", batch.Status())
	}

	raw, err := tr.BuildDocument("activities", batch)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	var doc struct {
		Activities []map[string]any `json:"activities"`
		Metadata   map[string]any   `json:"_metadata"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Activities) != 1 {
		t.Fatalf("expected one activity, got %d", len(doc.Activities))
	}
	if doc.Metadata["syncStatus"] != "partial" || doc.Metadata["lastUpdated"] != "2026-01-20T00:00:00.000Z" {
		t.Fatalf("unexpected metadata %v", doc.Metadata)
	}
	if doc.Metadata["activitiesCount"] != float64(1) {
		t.Fatalf("unexpected count %v", doc.Metadata["activitiesCount"])
	}
}

func TestBuildDocumentRefusesEmptyBatch(t *testing.T) {
	if _, err := transform.New().BuildDocument("activities", transform.Batch{}); !errors.Is(err, transform.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestMarkdownDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"2026-01-summer-camp.md": "---\ntitle: 여름 캠프\ndate: 2026-01-15\nsummary: 요약\nmetadata:\n  source: zine\n---\n본문 **강조**\n",
		"explicit.md":            "---\ntitle: Explicit\ndate: 2026-01-01\nslug: custom-slug\nbody: from front matter\n---\nignored\n",
		"notes.txt":              "not markdown",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	batch := transform.New().Markdown(dir)
	if len(batch.Skipped) != 0 {
		t.Fatalf("unexpected errors %v", batch.Skipped)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batch.Records))
	}

	first := batch.Records[0]
	if first["slug"] != "2026-01-summer-camp" || first["body"] != "본문 **강조**" {
		t.Fatalf("unexpected first record %v", first)
	}
	if _, err := json.Marshal(first); err != nil {
		t.Fatalf("record must be JSON encodable: %v", err)
	}
	second := batch.Records[1]
	if second["slug"] != "custom-slug" || second["body"] != "from front matter" {
		t.Fatalf("unexpected second record %v", second)
	}

	normalized := content.NormalizeAll(batch.Records)
	if len(normalized.Items) != 2 {
		t.Fatalf("expected both records to normalize, got %+v", normalized.Logs)
	}
}

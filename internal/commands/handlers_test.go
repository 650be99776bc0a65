package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/store"
)

type stubRefresher struct {
	calls  int
	result store.Result
}

func (s *stubRefresher) LoadFresh(context.Context) store.Result {
	s.calls++
	return s.result
}

type stubRenderer struct {
	collection string
	url        string
	shell      string
}

func (s *stubRenderer) RenderPage(_ context.Context, collection string, shell []byte, rawURL string) ([]byte, error) {
	s.collection, s.url, s.shell = collection, rawURL, string(shell)
	return []byte("<html>rendered</html>"), nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestMessageValidation(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
		err   error
	}{
		{"refresh ok", true, RefreshCollection{Collection: "activities"}.Validate()},
		{"refresh blank", false, RefreshCollection{Collection: "  "}.Validate()},
		{"render missing shell", false, RenderRoute{Collection: "activities"}.Validate()},
		{"transform no input", false, TransformDocument{Collection: "activities"}.Validate()},
		{"transform both inputs", false, TransformDocument{Collection: "activities", NotionFile: "a.json", MarkdownDir: "docs"}.Validate()},
		{"transform markdown", true, TransformDocument{Collection: "activities", MarkdownDir: "docs"}.Validate()},
		{"validate missing path", false, ValidateDocument{Collection: "activities"}.Validate()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if (tc.err == nil) != tc.valid {
				t.Fatalf("valid=%v, got error %v", tc.valid, tc.err)
			}
		})
	}
}

func TestRefreshHandlerUsesLookup(t *testing.T) {
	refresher := &stubRefresher{result: store.Result{
		Items:    []content.Item{{Slug: "a"}},
		Metadata: content.SyncMetadata{SyncStatus: content.SyncSuccess},
	}}
	handler := NewRefreshHandler(func(collection string) (Refresher, error) {
		if collection != "activities" {
			return nil, errors.New("unknown collection")
		}
		return refresher, nil
	}, nil)

	if err := handler.Execute(context.Background(), RefreshCollection{Collection: "activities"}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one fresh load, got %d", refresher.calls)
	}

	err := handler.Execute(context.Background(), RefreshCollection{Collection: "news"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for lookup failure, got %v", err)
	}
}

func TestRenderHandlerWritesOutput(t *testing.T) {
	dir := t.TempDir()
	shell := writeFile(t, dir, "activities.html", "<html><body><div id=\"activities\"></div></body></html>")
	out := filepath.Join(dir, "dist", "activities.html")
	renderer := &stubRenderer{}

	handler := NewRenderHandler(renderer, nil, nil)
	err := handler.Execute(context.Background(), RenderRoute{
		Collection: "activities",
		Shell:      shell,
		URL:        "https://example.org/activities.html?activity=a",
		Out:        out,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if renderer.collection != "activities" || renderer.url != "https://example.org/activities.html?activity=a" {
		t.Fatalf("unexpected renderer input %+v", renderer)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != "<html>rendered</html>" {
		t.Fatalf("unexpected output %q", written)
	}
}

func TestTransformHandlerMarkdownToStdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "camp.md", "---\ntitle: 캠프\ndate: 2026-02-01\n---\n본문\n")
	var buf bytes.Buffer

	handler := NewTransformHandler(nil, &buf, nil)
	if err := handler.Execute(context.Background(), TransformDocument{Collection: "activities", MarkdownDir: dir}); err != nil {
		t.Fatalf("transform: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	records, _ := doc["activities"].([]any)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %v", doc["activities"])
	}
}

func TestTransformHandlerKeepsExistingOutputOnEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	out := writeFile(t, dir, "activities.json", `{"activities":[]}`)

	handler := NewTransformHandler(nil, nil, nil)
	err := handler.Execute(context.Background(), TransformDocument{
		Collection:  "activities",
		MarkdownDir: filepath.Join(dir, "missing"),
		Out:         out,
	})
	if err == nil {
		t.Fatal("expected empty batch to fail")
	}
	written, _ := os.ReadFile(out)
	if string(written) != `{"activities":[]}` {
		t.Fatalf("existing output must be untouched, got %q", written)
	}
}

func TestValidateHandlerStrict(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "activities.json", `{
  "activities": [
    {"title": "ok", "date": "2026-01-01", "summary": "s", "body": "b", "slug": "ok"},
    {"summary": "no title"}
  ],
  "_metadata": {"lastUpdated": "2026-01-02T00:00:00.000Z", "syncStatus": "success"}
}`)

	var report ValidationReport
	handler := NewValidateHandler(func(r ValidationReport) { report = r }, nil)

	if err := handler.Execute(context.Background(), ValidateDocument{Collection: "activities", Path: path}); err != nil {
		t.Fatalf("lenient validate: %v", err)
	}
	if report.Records != 2 || report.Accepted != 1 || report.Rejected != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Metadata.SyncStatus != content.SyncSuccess {
		t.Fatalf("unexpected metadata %+v", report.Metadata)
	}

	err := handler.Execute(context.Background(), ValidateDocument{Collection: "activities", Path: path, Strict: true})
	if !errors.Is(err, ErrRejectedRecords) {
		t.Fatalf("expected ErrRejectedRecords, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateHandlerRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "activities.json", `{"activities": "nope"}`)

	err := NewValidateHandler(nil, nil).Execute(context.Background(), ValidateDocument{Collection: "activities", Path: path})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

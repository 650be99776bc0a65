package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/di"
	"github.com/bitcheongmo/sitefeed/internal/page"
	"github.com/bitcheongmo/sitefeed/internal/runtimeconfig"
	"github.com/bitcheongmo/sitefeed/internal/session"
)

const activitiesShell = `<!doctype html><html><head><title>활동공유</title></head>
<body><section id="activities-list"></section></body></html>`

const activitiesDocument = `{
  "activities": [
    {"title": "정기 모임", "date": "2026-01-15", "summary": "요약", "body": "**본문**", "slug": "meeting"}
  ],
  "_metadata": {"lastUpdated": "2026-01-16T00:00:00.000Z", "syncStatus": "success"}
}`

func siteRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "data", "activities.json"), []byte(activitiesDocument), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return root
}

func testConfig(root string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "https://example.org"
	cfg.Feed.Root = root
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Collections = nil
	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrCollectionsRequired) {
		t.Fatalf("expected ErrCollectionsRequired, got %v", err)
	}
}

func TestOrchestratorIsSharedPerCollection(t *testing.T) {
	container, err := di.NewContainer(testConfig(siteRoot(t)), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	first, err := container.Orchestrator("activities")
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	second, _ := container.Orchestrator("activities")
	if first != second {
		t.Fatal("expected the same orchestrator for repeated lookups")
	}
	if _, err := container.Orchestrator("news"); !errors.Is(err, di.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestRenderPageDetail(t *testing.T) {
	notifier := &session.MemoryNotifier{}
	container, err := di.NewContainer(testConfig(siteRoot(t)),
		di.WithLoggerProvider(newRecordingProvider()),
		di.WithNotifier(notifier),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	out, err := container.RenderPage(context.Background(), "activities", []byte(activitiesShell),
		"https://example.org/activities.html?activity=meeting")
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	markup := string(out)
	for _, fragment := range []string{
		"<title>정기 모임 | 빛청모 | 활동공유</title>",
		"<strong>본문</strong>",
		`href="https://example.org/activities.html?activity=meeting"`,
		"application/ld+json",
	} {
		if !strings.Contains(markup, fragment) {
			t.Fatalf("expected %q in rendered page:\n%s", fragment, markup)
		}
	}
	if len(notifier.Notices()) != 0 {
		t.Fatalf("fresh document should not raise notices, got %v", notifier.Notices())
	}
}

func TestRenderPageUnknownCollection(t *testing.T) {
	container, err := di.NewContainer(testConfig(siteRoot(t)), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	_, err = container.RenderPage(context.Background(), "news", []byte(activitiesShell), "")
	if !errors.Is(err, di.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestSnapshotsServeLastKnownGood(t *testing.T) {
	root := siteRoot(t)
	cfg := testConfig(root)
	cfg.Snapshot.Enabled = true
	cfg.Snapshot.DSN = "file:di_snapshots?mode=memory&cache=shared"

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()), di.WithNotifier(&session.MemoryNotifier{}))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	if container.Snapshots() == nil {
		t.Fatal("expected snapshots to be configured")
	}

	orchestrator, err := container.Orchestrator("activities")
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	if result := orchestrator.Load(context.Background()); len(result.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(result.Items))
	}

	if err := os.Remove(filepath.Join(root, "data", "activities.json")); err != nil {
		t.Fatalf("remove document: %v", err)
	}
	result := orchestrator.LoadFresh(context.Background())
	if len(result.Items) != 1 || result.Items[0].Slug != "meeting" {
		t.Fatalf("expected snapshot items, got %+v", result.Items)
	}
	if result.Metadata.SyncStatus == content.SyncSuccess {
		t.Fatalf("snapshot result must be marked degraded, got %q", result.Metadata.SyncStatus)
	}
}

func TestSessionsOwnTheirStores(t *testing.T) {
	container, err := di.NewContainer(testConfig(siteRoot(t)), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	newSession := func() *session.Session {
		doc, err := page.ParseString(activitiesShell)
		if err != nil {
			t.Fatalf("parse shell: %v", err)
		}
		s, err := container.NewSession("activities", doc, di.SessionOptions{})
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		return s
	}

	first, second := newSession(), newSession()
	if first.Store() == second.Store() {
		t.Fatal("expected each session to own its store")
	}
	if err := first.Start(context.Background(), "https://example.org/activities.html"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !first.Store().Loaded() {
		t.Fatal("expected the started session to be loaded")
	}
	if second.Store().Loaded() {
		t.Fatal("loading one session must not fill another")
	}

	shared, err := container.Orchestrator("activities")
	if err != nil {
		t.Fatalf("Orchestrator: %v", err)
	}
	if shared.Store() == first.Store() {
		t.Fatal("sessions must not use the shared module store")
	}
}

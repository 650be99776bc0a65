package seo_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/page"
	"github.com/bitcheongmo/sitefeed/internal/seo"
	"golang.org/x/net/html"
)

const shell = `<!doctype html><html><head><title>old</title>
<meta name="description" content="stale">
<script type="application/ld+json">{"stale":true}</script>
</head><body><main id="activities-list"></main></body></html>`

var activities = seo.Collection{
	Name:              "activities",
	Param:             "activity",
	PagePath:          "activities.html",
	Section:           "활동공유",
	Noun:              "활동",
	Description:       "빛청모의 다양한 활동과 소식을 공유하는 공간입니다.",
	DetailDescription: "빛청모의 활동을 확인하세요.",
	Keywords:          []string{"빛청모", "성소수자", "공조", "활동", "커뮤니티"},
}

func newBuilder(t *testing.T) *seo.Builder {
	t.Helper()
	urls, err := seo.NewURLs("https://example.org/", activities)
	if err != nil {
		t.Fatalf("NewURLs: %v", err)
	}
	return seo.NewBuilder(seo.Site{Name: "빛청모", LogoPath: "/assets/img/logo.jpg"}, activities, urls)
}

func TestNewURLsRequiresAbsoluteBase(t *testing.T) {
	if _, err := seo.NewURLs("example.org"); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}

func TestListTags(t *testing.T) {
	tags, err := newBuilder(t).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tags.Title != "빛청모 | 활동공유" {
		t.Fatalf("unexpected title %q", tags.Title)
	}
	if got := tags.Name("keywords"); got != "빛청모, 성소수자, 공조, 활동, 커뮤니티" {
		t.Fatalf("unexpected keywords %q", got)
	}
	if got := tags.Property("og:type"); got != "website" {
		t.Fatalf("unexpected og:type %q", got)
	}
	if got := tags.Property("og:image"); got != "https://example.org/assets/img/logo.jpg" {
		t.Fatalf("unexpected og:image %q", got)
	}
	canonical, err := url.Parse(tags.Canonical)
	if err != nil {
		t.Fatalf("parse canonical: %v", err)
	}
	if canonical.Host != "example.org" || canonical.Path != "/activities.html" || canonical.RawQuery != "" {
		t.Fatalf("unexpected canonical %q", tags.Canonical)
	}
	if tags.JSONLD["@type"] != "Organization" || tags.JSONLD["url"] != "https://example.org" {
		t.Fatalf("unexpected json-ld %#v", tags.JSONLD)
	}
}

func TestDetailTags(t *testing.T) {
	image := "/assets/img/a.png"
	item := &content.Item{
		Title: "여름 캠프",
		Slug:  "summer camp",
		Date:  time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		Body:  strings.Repeat("가", 200),
		Image: &image,
	}

	tags, err := newBuilder(t).Detail(item)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if tags.Title != "여름 캠프 | 빛청모 | 활동공유" {
		t.Fatalf("unexpected title %q", tags.Title)
	}
	if got := []rune(tags.Name("description")); len(got) != seo.DescriptionLimit {
		t.Fatalf("expected description truncated to %d runes, got %d", seo.DescriptionLimit, len(got))
	}
	if got := tags.Name("keywords"); got != "빛청모, 활동, 여름 캠프" {
		t.Fatalf("unexpected keywords %q", got)
	}
	if got := tags.Name("twitter:card"); got != "summary_large_image" {
		t.Fatalf("unexpected twitter card %q", got)
	}
	if got := tags.Property("article:published_time"); got != "2024-07-01T09:00:00.000Z" {
		t.Fatalf("unexpected published time %q", got)
	}
	canonical, err := url.Parse(tags.Canonical)
	if err != nil {
		t.Fatalf("parse canonical: %v", err)
	}
	if canonical.Query().Get("activity") != "summer camp" {
		t.Fatalf("canonical %q does not carry the slug", tags.Canonical)
	}
	imageLD, ok := tags.JSONLD["image"].(map[string]any)
	if !ok || imageLD["url"] != "https://example.org/assets/img/a.png" {
		t.Fatalf("unexpected json-ld image %#v", tags.JSONLD["image"])
	}
	if tags.JSONLD["dateModified"] == nil {
		t.Fatalf("expected dateModified")
	}
}

func TestDetailDescriptionFallsBack(t *testing.T) {
	tags, err := newBuilder(t).Detail(&content.Item{Title: "t", Slug: "t", Date: time.Now()})
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if got := tags.Name("description"); got != activities.DetailDescription {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestDetailNilItemRevertsToList(t *testing.T) {
	builder := newBuilder(t)
	tags, err := builder.Detail(nil)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if tags.Title != builder.SiteTitle() || tags.Property("og:type") != "website" {
		t.Fatalf("expected list tags, got %+v", tags)
	}
}

func TestApplyUpsertsHeadAndKeepsOneStructuredDataBlock(t *testing.T) {
	doc, err := page.ParseString(shell)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	builder := newBuilder(t)
	list, _ := builder.List()
	detail, _ := builder.Detail(&content.Item{Title: "t", Slug: "t", Summary: "s", Date: time.Now()})

	for _, tags := range []seo.Tags{list, detail, list} {
		if err := seo.Apply(doc, tags); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}

	if doc.Title() != list.Title {
		t.Fatalf("unexpected title %q", doc.Title())
	}
	scripts := seo.StructuredData(doc)
	if len(scripts) != 1 {
		t.Fatalf("expected one json-ld block, got %d", len(scripts))
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(page.TextContent(scripts[0])), &decoded); err != nil {
		t.Fatalf("decode json-ld: %v", err)
	}
	if decoded["@type"] != "Organization" {
		t.Fatalf("unexpected json-ld %#v", decoded)
	}

	descriptions := page.FindAll(doc.Head(), func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && page.Attr(n, "name") == "description"
	})
	if len(descriptions) != 1 || page.Attr(descriptions[0], "content") != list.Name("description") {
		t.Fatalf("expected a single updated description meta")
	}
	if strings.Contains(doc.String(), `property="article:published_time"`) {
		t.Fatalf("list tags must drop the detail published time:\n%s", doc.String())
	}
}

func TestApplyDetailAddsPublishedTime(t *testing.T) {
	doc, err := page.ParseString(shell)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	detail, _ := newBuilder(t).Detail(&content.Item{Title: "t", Slug: "t", Summary: "s", Date: time.Now()})
	if err := seo.Apply(doc, detail); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.Contains(doc.String(), `property="article:published_time"`) {
		t.Fatalf("expected published time on a detail view:\n%s", doc.String())
	}
}

func TestApplySkipsEmptyContent(t *testing.T) {
	doc, err := page.ParseString(shell)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := seo.Apply(doc, seo.Tags{Names: []seo.Meta{{Key: "description", Content: ""}}}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.Contains(doc.String(), `content="stale"`) {
		t.Fatalf("empty content should not overwrite existing meta")
	}
	if got := len(seo.StructuredData(doc)); got != 0 {
		t.Fatalf("nil json-ld should clear existing blocks, got %d", got)
	}
}

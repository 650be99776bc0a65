// Package seo derives the head metadata of collection pages: document title,
// description and keywords, Open Graph and Twitter Card tags, the canonical
// link and a single JSON-LD block.
package seo

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

// DescriptionLimit caps descriptions derived from an item body, in runes.
const DescriptionLimit = 160

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Site identifies the publishing organisation.
type Site struct {
	Name     string
	LogoPath string
	Locale   string
}

// Collection carries the list page defaults of one collection.
type Collection struct {
	Name              string
	Param             string
	PagePath          string
	Section           string
	Noun              string
	Description       string
	DetailDescription string
	Keywords          []string
}

// Meta is one meta element keyed by name or property.
type Meta struct {
	Key     string
	Content string
}

// Tags is the full head state for one page view.
type Tags struct {
	Title      string
	Canonical  string
	Names      []Meta
	Properties []Meta
	JSONLD     map[string]any
}

// Name returns the content of the name meta key.
func (t Tags) Name(key string) string {
	return lookup(t.Names, key)
}

// Property returns the content of the property meta key.
func (t Tags) Property(key string) string {
	return lookup(t.Properties, key)
}

func lookup(metas []Meta, key string) string {
	for _, meta := range metas {
		if meta.Key == key {
			return meta.Content
		}
	}
	return ""
}

// Builder derives tags for the pages of one collection.
type Builder struct {
	site       Site
	collection Collection
	urls       *URLs
	now        func() time.Time
}

// NewBuilder wires a builder for collection.
func NewBuilder(site Site, collection Collection, urls *URLs) *Builder {
	if site.Locale == "" {
		site.Locale = "ko_KR"
	}
	return &Builder{site: site, collection: collection, urls: urls, now: time.Now}
}

// SiteTitle is "<site> | <section>".
func (b *Builder) SiteTitle() string {
	section := b.collection.Section
	if section == "" {
		section = b.collection.Noun
	}
	if section == "" {
		return b.site.Name
	}
	return b.site.Name + " | " + section
}

func (b *Builder) logoURL() string {
	return b.urls.Absolute(b.site.LogoPath)
}

// List returns the tags of the collection list page.
func (b *Builder) List() (Tags, error) {
	canonical, err := b.urls.List(b.collection.Name)
	if err != nil {
		return Tags{}, err
	}
	title := b.SiteTitle()
	description := b.collection.Description
	image := b.logoURL()

	return Tags{
		Title:     title,
		Canonical: canonical,
		Names: []Meta{
			{Key: "description", Content: description},
			{Key: "keywords", Content: strings.Join(b.collection.Keywords, ", ")},
			{Key: "twitter:card", Content: "summary"},
			{Key: "twitter:title", Content: title},
			{Key: "twitter:description", Content: description},
			{Key: "twitter:image", Content: image},
		},
		Properties: []Meta{
			{Key: "og:type", Content: "website"},
			{Key: "og:title", Content: title},
			{Key: "og:description", Content: description},
			{Key: "og:url", Content: canonical},
			{Key: "og:image", Content: image},
			{Key: "og:locale", Content: b.site.Locale},
		},
		JSONLD: map[string]any{
			"@context":    "https://schema.org",
			"@type":       "Organization",
			"name":        b.site.Name,
			"url":         b.urls.Origin(),
			"logo":        image,
			"description": description,
		},
	}, nil
}

// Detail returns the tags of one item page. A nil item yields the list tags.
func (b *Builder) Detail(item *content.Item) (Tags, error) {
	if item == nil {
		return b.List()
	}
	canonical, err := b.urls.Detail(b.collection.Name, b.collection.Param, item.Slug)
	if err != nil {
		return Tags{}, err
	}

	title := item.Title + " | " + b.SiteTitle()
	description := b.detailDescription(*item)
	logo := b.logoURL()
	image := logo
	if item.Image != nil && strings.TrimSpace(*item.Image) != "" {
		image = b.urls.Absolute(*item.Image)
	}
	published := b.now()
	if !item.Date.IsZero() {
		published = item.Date
	}
	publishedISO := published.UTC().Format(isoLayout)

	keywords := []string{b.site.Name}
	if b.collection.Noun != "" {
		keywords = append(keywords, b.collection.Noun)
	}
	keywords = append(keywords, item.Title)

	article := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      item.Title,
		"description":   description,
		"datePublished": publishedISO,
		"author": map[string]any{
			"@type": "Organization",
			"name":  b.site.Name,
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  b.site.Name,
			"logo": map[string]any{
				"@type": "ImageObject",
				"url":   logo,
			},
		},
	}
	if item.Image != nil && strings.TrimSpace(*item.Image) != "" {
		article["image"] = map[string]any{
			"@type": "ImageObject",
			"url":   image,
		}
	}
	if !item.Date.IsZero() {
		article["dateModified"] = publishedISO
	}

	return Tags{
		Title:     title,
		Canonical: canonical,
		Names: []Meta{
			{Key: "description", Content: description},
			{Key: "keywords", Content: strings.Join(keywords, ", ")},
			{Key: "twitter:card", Content: "summary_large_image"},
			{Key: "twitter:title", Content: title},
			{Key: "twitter:description", Content: description},
			{Key: "twitter:image", Content: image},
		},
		Properties: []Meta{
			{Key: "og:type", Content: "article"},
			{Key: "og:title", Content: title},
			{Key: "og:description", Content: description},
			{Key: "og:url", Content: canonical},
			{Key: "og:image", Content: image},
			{Key: "og:locale", Content: b.site.Locale},
			{Key: "article:published_time", Content: publishedISO},
		},
		JSONLD: article,
	}, nil
}

func (b *Builder) detailDescription(item content.Item) string {
	if summary := strings.TrimSpace(item.Summary); summary != "" {
		return summary
	}
	if body := strings.TrimSpace(item.Body); body != "" {
		return truncateRunes(body, DescriptionLimit)
	}
	return b.collection.DetailDescription
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}

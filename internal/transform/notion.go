// Package transform turns upstream exports into the raw records consumed by
// the feed: Notion database pages and markdown files with front matter.
package transform

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

// RichText is one run of Notion rich text.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
	Annotations Annotations `json:"annotations"`
}

// Annotations are the inline styles of a rich text run.
type Annotations struct {
	Bold   bool `json:"bold"`
	Italic bool `json:"italic"`
	Code   bool `json:"code"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SelectOption is a select or status value.
type SelectOption struct {
	Name string `json:"name"`
}

// FileRef is one entry of a files property.
type FileRef struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	File     *URLRef `json:"file"`
	External *URLRef `json:"external"`
}

// URLRef wraps a hosted or external file URL.
type URLRef struct {
	URL string `json:"url"`
}

// Property is a Notion page property. Only the field matching Type is set.
type Property struct {
	Type     string        `json:"type"`
	Title    []RichText    `json:"title"`
	RichText []RichText    `json:"rich_text"`
	Text     []RichText    `json:"text"`
	Date     *DateValue    `json:"date"`
	Checkbox *bool         `json:"checkbox"`
	Select   *SelectOption `json:"select"`
	Status   *SelectOption `json:"status"`
	Files    []FileRef     `json:"files"`
}

// Page is a Notion database page.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties"`
	// Blocks holds the page content when the export inlines it.
	Blocks []Block `json:"blocks,omitempty"`
}

// NotionAliases lists the property names accepted for each field, in
// priority order.
var NotionAliases = content.AliasTable{
	{Field: content.FieldTitle, Candidates: []string{"제목", "Title", "title", "이름", "Name", "name"}},
	{Field: content.FieldDate, Candidates: []string{"날짜", "Date", "date", "일자", "날짜/시간"}},
	{Field: content.FieldSummary, Candidates: []string{"요약", "Summary", "summary", "설명", "Description", "description"}},
	{Field: content.FieldBody, Candidates: []string{"본문", "Body", "body", "내용", "Content", "content"}},
	{Field: content.FieldSlug, Candidates: []string{"슬러그", "Slug", "slug", "URL", "url"}},
	{Field: content.FieldPublished, Candidates: []string{"공개여부", "공개 여부", "Published", "published", "Public", "public"}},
	{Field: content.FieldCategory, Candidates: []string{"카테고리", "Category", "category", "분류"}},
	{Field: content.FieldImage, Candidates: []string{"이미지", "Image", "image", "파일과 미디어", "Files", "files", "파일", "File", "file", "미디어", "Media", "media"}},
}

var (
	publicStatuses  = []string{"공개", "Published", "published", "Public", "public"}
	privateStatuses = []string{"비공개", "Private", "private", "Unpublished", "unpublished"}
)

// slugIDLength is how many characters of the page id form a fallback slug.
const slugIDLength = 20

// PageError reports a page that could not be converted.
type PageError struct {
	PageID  string
	Missing []string
	Keys    []string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("transform: page %s missing %s (properties: %s)",
		shortID(e.PageID), strings.Join(e.Missing, ", "), strings.Join(e.Keys, ", "))
}

func (e *PageError) Unwrap() error {
	return ErrMissingRequired
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// DecodePages reads a Notion export: either an array of pages or an object
// with a "results" array, as returned by a database query.
func DecodePages(raw []byte) ([]Page, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var pages []Page
		if err := json.Unmarshal(raw, &pages); err != nil {
			return nil, fmt.Errorf("transform: decode pages: %w", err)
		}
		return pages, nil
	}
	var envelope struct {
		Results []Page `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("transform: decode pages: %w", err)
	}
	return envelope.Results, nil
}

// FromNotionPage converts page into a raw record. blocks supply the body when
// no body property is set; nil falls back to page.Blocks.
func FromNotionPage(page Page, blocks []Block) (content.RawRecord, error) {
	if page.Properties == nil {
		return nil, &PageError{PageID: page.ID, Missing: []string{"properties"}}
	}
	if blocks == nil {
		blocks = page.Blocks
	}

	title := strings.TrimSpace(PropertyText(findProperty(page.Properties, content.FieldTitle)))
	date, hasDate := PropertyDate(findProperty(page.Properties, content.FieldDate))

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if !hasDate {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return nil, &PageError{PageID: page.ID, Missing: missing, Keys: propertyKeys(page.Properties)}
	}

	summary := strings.TrimSpace(PropertyText(findProperty(page.Properties, content.FieldSummary)))
	body := PropertyText(findProperty(page.Properties, content.FieldBody))
	if strings.TrimSpace(body) == "" && len(blocks) > 0 {
		body = BlocksToMarkdown(blocks)
	}
	body = strings.TrimSpace(body)

	slug := strings.TrimSpace(PropertyText(findProperty(page.Properties, content.FieldSlug)))
	if slug == "" {
		slug = IDSlug(page.ID)
	}

	if summary == "" {
		summary = title
	}
	if body == "" {
		body = summary
	}

	record := content.RawRecord{
		"title":            title,
		"date":             date.UTC().Format("2006-01-02T15:04:05.000Z"),
		"summary":          summary,
		"body":             body,
		"slug":             slug,
		"published":        PropertyPublished(findProperty(page.Properties, content.FieldPublished)),
		"category":         nil,
		"image":            nil,
		"id":               page.ID,
		"created_time":     page.CreatedTime,
		"last_edited_time": page.LastEditedTime,
	}
	if category := PropertySelect(findProperty(page.Properties, content.FieldCategory)); category != "" {
		record["category"] = category
	}
	if image := PropertyFileURL(findProperty(page.Properties, content.FieldImage)); image != "" {
		record["image"] = image
	}
	return record, nil
}

// IDSlug derives a slug from a page id: hyphens removed, first 20 characters.
func IDSlug(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > slugIDLength {
		return compact[:slugIDLength]
	}
	return compact
}

func findProperty(properties map[string]Property, field content.Field) *Property {
	_, prop, ok := content.MatchField(properties, NotionAliases.Candidates(field), nil)
	if !ok {
		return nil
	}
	return &prop
}

func propertyKeys(properties map[string]Property) []string {
	keys := make([]string, 0, len(properties))
	for key, prop := range properties {
		keys = append(keys, key+"="+prop.Type)
	}
	return sortedStrings(keys)
}

// PropertyText joins the plain text of title, rich_text and text properties.
func PropertyText(prop *Property) string {
	if prop == nil {
		return ""
	}
	var runs []RichText
	switch prop.Type {
	case "title":
		runs = prop.Title
	case "rich_text":
		runs = prop.RichText
	case "text":
		runs = prop.Text
	default:
		return ""
	}
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.PlainText)
	}
	return b.String()
}

// PropertyDate returns the start of a date property.
func PropertyDate(prop *Property) (time.Time, bool) {
	if prop == nil || prop.Type != "date" || prop.Date == nil || prop.Date.Start == "" {
		return time.Time{}, false
	}
	return content.ParseDate(prop.Date.Start)
}

// PropertyPublished interprets a checkbox or status property. Missing
// properties and unknown status values count as published.
func PropertyPublished(prop *Property) bool {
	if prop == nil {
		return true
	}
	switch prop.Type {
	case "checkbox":
		return prop.Checkbox == nil || *prop.Checkbox
	case "status":
		if prop.Status == nil {
			return true
		}
		if contains(privateStatuses, prop.Status.Name) {
			return false
		}
		return true
	default:
		return true
	}
}

// KnownStatus reports whether name is a recognised publication status.
func KnownStatus(name string) bool {
	return contains(publicStatuses, name) || contains(privateStatuses, name)
}

// PropertySelect returns the chosen option name.
func PropertySelect(prop *Property) string {
	if prop == nil || prop.Type != "select" || prop.Select == nil {
		return ""
	}
	return prop.Select.Name
}

// PropertyFileURL returns the URL of the first file.
func PropertyFileURL(prop *Property) string {
	if prop == nil || prop.Type != "files" || len(prop.Files) == 0 {
		return ""
	}
	first := prop.Files[0]
	switch {
	case first.Type == "file" && first.File != nil:
		return first.File.URL
	case first.Type == "external" && first.External != nil:
		return first.External.URL
	default:
		return ""
	}
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

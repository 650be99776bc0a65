package transform

import (
	"sort"
	"strings"
)

// TextBlock is the payload of text-bearing blocks.
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// Block is one Notion content block.
type Block struct {
	Type             string     `json:"type"`
	Paragraph        *TextBlock `json:"paragraph,omitempty"`
	Heading1         *TextBlock `json:"heading_1,omitempty"`
	Heading2         *TextBlock `json:"heading_2,omitempty"`
	Heading3         *TextBlock `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock `json:"numbered_list_item,omitempty"`
	Code             *TextBlock `json:"code,omitempty"`
	Quote            *TextBlock `json:"quote,omitempty"`
}

// BlocksToMarkdown renders blocks in the restricted markdown dialect.
// Unsupported block types are dropped.
func BlocksToMarkdown(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(blockMarkdown(block))
	}
	return b.String()
}

func blockMarkdown(block Block) string {
	wrap := func(payload *TextBlock, prefix, suffix string) string {
		if payload == nil {
			return ""
		}
		text := RichTextMarkdown(payload.RichText)
		if text == "" {
			return ""
		}
		return prefix + text + suffix
	}

	switch block.Type {
	case "paragraph":
		return wrap(block.Paragraph, "", "\n\n")
	case "heading_1":
		return wrap(block.Heading1, "# ", "\n\n")
	case "heading_2":
		return wrap(block.Heading2, "## ", "\n\n")
	case "heading_3":
		return wrap(block.Heading3, "### ", "\n\n")
	case "bulleted_list_item":
		return wrap(block.BulletedListItem, "- ", "\n")
	case "numbered_list_item":
		return wrap(block.NumberedListItem, "1. ", "\n")
	case "code":
		if block.Code == nil {
			return ""
		}
		return wrap(block.Code, "```"+block.Code.Language+"\n", "\n```\n\n")
	case "quote":
		return wrap(block.Quote, "> ", "\n\n")
	case "divider":
		return "---\n\n"
	default:
		return ""
	}
}

// RichTextMarkdown renders runs with bold, italic and link markup.
func RichTextMarkdown(runs []RichText) string {
	var b strings.Builder
	for _, run := range runs {
		text := run.PlainText
		if run.Annotations.Bold {
			text = "**" + text + "**"
		}
		if run.Annotations.Italic {
			text = "*" + text + "*"
		}
		if run.Href != nil && *run.Href != "" {
			text = "[" + text + "](" + *run.Href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}

func sortedStrings(values []string) []string {
	sort.Strings(values)
	return values
}

package transform

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

// FromMarkdown builds a raw record from a markdown source with front matter.
// The markdown body becomes the record body unless the front matter sets
// one; name supplies the slug when none is declared.
func FromMarkdown(name string, source []byte) (content.RawRecord, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("transform: parse front matter %s: %w", name, err)
	}

	record := content.RawRecord{}
	for key, value := range meta {
		record[key] = plainValue(value)
	}
	if _, _, ok := content.MatchField(record, content.RecordAliases.Candidates(content.FieldBody), nil); !ok {
		if text := strings.TrimSpace(string(body)); text != "" {
			record["body"] = text
		}
	}
	if _, _, ok := content.MatchField(record, content.RecordAliases.Candidates(content.FieldSlug), nil); !ok {
		if slug := content.Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))); slug != "" {
			record["slug"] = slug
		}
	}
	return record, nil
}

// MarkdownDir reads every .md file directly under dir, ordered by file name.
// Files that fail to parse are reported and skipped.
func MarkdownDir(dir string) ([]content.RawRecord, []error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, []error{fmt.Errorf("transform: list %s: %w", dir, err)}
	}
	sort.Strings(matches)

	var (
		records []content.RawRecord
		errs    []error
	)
	for _, path := range matches {
		source, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("transform: read %s: %w", path, err))
			continue
		}
		record, err := FromMarkdown(path, source)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, record)
	}
	return records, errs
}

// plainValue converts YAML decoded maps keyed by interface values into
// string-keyed maps so records stay JSON encodable.
func plainValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = plainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plainValue(item)
		}
		return out
	default:
		return value
	}
}

package feed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bitcheongmo/sitefeed/internal/content"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// FallbackRecords returns the bundled records for collection, or an empty
// slice when none are bundled.
func FallbackRecords(collection string) ([]content.RawRecord, error) {
	data, err := fallbackFS.ReadFile("fallback/" + strings.TrimSpace(collection) + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		return []content.RawRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

// FallbackFile reads fallback records from a JSON array on disk.
func FallbackFile(path string) ([]content.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]content.RawRecord, error) {
	var records []content.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode fallback records: %w", err)
	}
	return records, nil
}

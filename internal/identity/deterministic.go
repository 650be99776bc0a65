// Package identity derives stable ids for persisted records so repeated
// writes for the same collection land on the same row.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "sitefeed"

// Key builds a namespaced key "sitefeed:<kind>:<part>...". Parts are trimmed
// and lower-cased; empty parts are dropped.
func Key(kind string, parts ...string) string {
	segments := []string{namespace, strings.ToLower(strings.TrimSpace(kind))}
	for _, part := range parts {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, ":")
}

// UUID hashes key into a UUID with go-hashid. A blank key gives uuid.Nil.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return id
}

// SnapshotUUID is the row id of the last-known-good snapshot of a collection.
func SnapshotUUID(collection string) uuid.UUID {
	return UUID(Key("snapshot", collection))
}

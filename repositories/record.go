// Package repositories implements create/retrieve/update/list per resource
// kind over the key-value store, including the mapping between resource
// values and their flat record representation. Records are addressed by the
// resource identifier itself; every record carries a server-generated
// lastmodified field (Unix milliseconds) that feeds the polling watermark.
package repositories

import (
	"fmt"
	"strconv"
	"time"

	apperrors "collab-chat/errors"
	"collab-chat/store"
)

const fieldLastModified = "lastmodified"

func formatTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseTimestamp(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// requiredField reads an identity-bearing field. Its absence on a record that
// otherwise exists signals a corrupt record; the mapper never substitutes a
// default for it.
func requiredField(kv store.KeyValueStore, key, field string) (string, error) {
	value, ok, err := kv.GetField(key, field)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("record %s has no %s: %w", key, field, apperrors.ErrCorruptRecord)
	}
	return value, nil
}

// optionalField reads a non-identity field, defaulting to empty when absent.
func optionalField(kv store.KeyValueStore, key, field string) (string, error) {
	value, _, err := kv.GetField(key, field)
	if err != nil {
		return "", err
	}
	return value, nil
}

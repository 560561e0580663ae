// Package i18n resolves display strings out of per-field locale blobs
// ({"en": "...", "es": "..."}) stored as JSON columns.
package i18n

import (
	"bytes"
	"encoding/json"
)

const DefaultLocale = "en"

type entry struct {
	key      string
	value    string
	isString bool
}

// Resolve returns the string for locale, falling back to English, then to
// the first string value in document order, then to fallback. Malformed
// blobs, null, arrays and scalars all yield fallback.
func Resolve(blob []byte, locale, fallback string) string {
	entries, ok := parse(blob)
	if !ok {
		return fallback
	}
	if v, ok := lookup(entries, locale); ok {
		return v
	}
	if v, ok := lookup(entries, DefaultLocale); ok {
		return v
	}
	for _, e := range entries {
		if e.isString {
			return e.value
		}
	}
	return fallback
}

// lookup follows JSON.parse semantics: with duplicate keys the last one wins.
func lookup(entries []entry, key string) (string, bool) {
	found, value := false, ""
	for _, e := range entries {
		if e.key != key {
			continue
		}
		found, value = e.isString, e.value
	}
	return value, found
}

func parse(blob []byte) ([]entry, bool) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || blob[0] != '{' {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(blob))
	if _, err := dec.Token(); err != nil {
		return nil, false
	}

	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		s, isString := v.(string)
		entries = append(entries, entry{key: key, value: s, isString: isString})
	}
	return entries, true
}

// Set writes value under locale, keeping the existing key order. A blob that
// is not an object is replaced by a fresh one.
func Set(blob []byte, locale, value string) []byte {
	entries, ok := parse(blob)
	if !ok {
		entries = nil
	}

	replaced := false
	for i := range entries {
		if entries[i].key == locale {
			entries[i].value, entries[i].isString = value, true
			replaced = true
		}
	}
	if !replaced {
		entries = append(entries, entry{key: locale, value: value, isString: true})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	written := map[string]bool{}
	for _, e := range entries {
		if written[e.key] || !e.isString {
			continue
		}
		if len(written) > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(e.key)
		v, _ := json.Marshal(e.value)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		written[e.key] = true
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

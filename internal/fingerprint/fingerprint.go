package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"dupecheck/internal/textutil"
)

// Text returns the hex SHA-256 digest of normalized text. Empty input yields
// an empty fingerprint so blank bodies never collide with each other.
func Text(normalized string) string {
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Body normalizes raw and returns its digest along with the word count that
// is persisted next to it.
func Body(raw string) (string, int) {
	doc := textutil.Prepare(raw)
	return Text(doc.Text), len(doc.Words)
}

// CanonicalURL trims whitespace and a trailing slash and lowercases the
// scheme and host so trivially different spellings compare equal.
func CanonicalURL(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	value = strings.TrimSuffix(value, "/")
	scheme, rest, ok := strings.Cut(value, "://")
	if !ok {
		return value
	}
	host, path, _ := strings.Cut(rest, "/")
	canonical := strings.ToLower(scheme) + "://" + strings.ToLower(host)
	if path != "" {
		canonical += "/" + path
	}
	return canonical
}

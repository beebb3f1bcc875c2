// Package reconcile tracks findings across review runs: matching each
// current draft against previously-open findings so identity survives line
// shifts, and retiring findings that no longer apply.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// normalizePath lowercases and trims a path so matching is stable across
// case differences some forges introduce in rename diffs.
func normalizePath(path string) string {
	return strings.ToLower(strings.TrimSpace(path))
}

// normalizeTitle folds a finding title down to its significant words: this
// is the fallback match key used when neither an exact match_key nor a
// hunk_hash-based match nor the semantic helper succeeds.
func normalizeTitle(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	return strings.Join(fields, " ")
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:24]
}

// fingerprint identifies a finding by its semantic content regardless of
// exact location.
func fingerprint(category, title, path string) string {
	return digest(category, strings.ToLower(title), normalizePath(path))
}

// matchKey is the strongest identity signal: fingerprint plus the exact
// diff-local anchors. Two drafts sharing a match_key are almost certainly
// the same finding.
func matchKey(fp, path, hunkHash, title string) string {
	return digest(fp, normalizePath(path), hunkHash, strings.ToLower(title))
}

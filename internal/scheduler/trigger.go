package scheduler

import (
	"path"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// shouldTriggerReview evaluates the include/exclude predicates configured for
// a repo against a normalized pull_request event. A manual-only repo never
// triggers off the webhook itself.
func shouldTriggerReview(cfg *core.TriggerConfig, ev *core.WebhookEvent) bool {
	if cfg == nil {
		return true
	}
	if cfg.ManualOnly {
		return false
	}
	if ev.Draft && !cfg.AllowDrafts {
		return false
	}
	if !matchesAny(cfg.IncludeLabels, ev.Labels, false) {
		return false
	}
	if matchesAny(cfg.ExcludeLabels, ev.Labels, false) {
		return false
	}
	if !matchesBranch(cfg.IncludeBranches, ev.HeadRef) {
		return false
	}
	if matchesBranch(cfg.ExcludeBranches, ev.HeadRef) {
		return false
	}
	if !matchesAny(cfg.IncludeAuthors, []string{ev.Author}, true) {
		return false
	}
	if matchesAny(cfg.ExcludeAuthors, []string{ev.Author}, true) {
		return false
	}
	haystack := strings.ToLower(ev.PRTitle + "\n" + ev.PRBody)
	if !containsAnyKeyword(cfg.IncludeKeywords, haystack) {
		return false
	}
	if containsAnyKeyword(cfg.ExcludeKeywords, haystack) {
		return false
	}
	return true
}

// matchesAny reports whether any candidate matches any pattern, empty
// patterns mean "no restriction" (always true). When exact is true, matching
// is case-insensitive equality; otherwise case-insensitive equality against
// any element.
func matchesAny(patterns, candidates []string, exact bool) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		for _, c := range candidates {
			if exact {
				if strings.EqualFold(p, c) {
					return true
				}
				continue
			}
			if strings.EqualFold(p, c) {
				return true
			}
		}
	}
	return false
}

// matchesBranch reports whether ref matches any pattern, supporting
// shell-style glob patterns (e.g. "release/*"). Empty patterns mean "no
// restriction".
func matchesBranch(patterns []string, ref string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(p, ref); err == nil && ok {
			return true
		}
	}
	return false
}

// containsAnyKeyword reports whether haystack (already lowercased) contains
// any of the patterns. Empty patterns mean "no restriction".
func containsAnyKeyword(patterns []string, haystack string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if strings.Contains(haystack, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

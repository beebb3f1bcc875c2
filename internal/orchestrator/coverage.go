package orchestrator

import "github.com/sevigo/grepiku/internal/core"

// coverageTargets selects the coverage stage's targets: changed files
// the editor's pass left without a single comment, which are the files a
// dedicated coverage pass can actually add value on.
func coverageTargets(changedPaths []string, comments []core.DraftComment) []string {
	commented := make(map[string]bool, len(comments))
	for _, c := range comments {
		commented[c.Path] = true
	}
	var targets []string
	for _, p := range changedPaths {
		if !commented[p] {
			targets = append(targets, p)
		}
	}
	return targets
}

// shouldRunCoverage guards the coverage stage: it only runs
// when there's something uncovered to look at, the output isn't
// summary-only, inline comments are allowed at all, and the inline budget
// isn't already exhausted.
func shouldRunCoverage(resolved *core.ResolvedConfig, targets []string, existingInline int) bool {
	if len(targets) == 0 || resolved.Output.SummaryOnly {
		return false
	}
	allowsInline := false
	for _, k := range resolved.CommentTypes.Allow {
		if k == core.CommentInline {
			allowsInline = true
			break
		}
	}
	if !allowsInline {
		return false
	}
	return existingInline < resolved.Limits.MaxInlineComments
}

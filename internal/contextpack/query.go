package contextpack

import (
	"strings"

	"github.com/sevigo/grepiku/internal/diffidx"
)

const (
	maxBodyChars    = 1200
	maxDiffSignalLn = 140
	maxQueryChars   = 6000
)

// composeQuery builds the retrieval query string: PR title, the first 1200
// chars of the PR body, the changed paths, and up to 140 lines of
// added/removed diff signal, truncated to 6000 chars total.
func composeQuery(title, body string, changedPaths []string, idx *diffidx.Index) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	trimmedBody := body
	if len(trimmedBody) > maxBodyChars {
		trimmedBody = trimmedBody[:maxBodyChars]
	}
	b.WriteString(trimmedBody)
	b.WriteString("\n")

	b.WriteString(strings.Join(changedPaths, "\n"))
	b.WriteString("\n")

	if idx != nil {
		lines := 0
		for _, path := range idx.Files() {
			if lines >= maxDiffSignalLn {
				break
			}
			for _, h := range idx.Hunks(path) {
				if lines >= maxDiffSignalLn {
					break
				}
				for _, dl := range h.Lines {
					if lines >= maxDiffSignalLn {
						break
					}
					if dl.Kind == diffidx.LineAdded || dl.Kind == diffidx.LineRemoved {
						b.WriteString(dl.Text)
						b.WriteString("\n")
						lines++
					}
				}
			}
		}
	}

	out := b.String()
	if len(out) > maxQueryChars {
		out = out[:maxQueryChars]
	}
	return out
}

package indexer

import (
	"regexp"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// callExprRe matches a plausible call-expression identifier: a dotted or
// bare name immediately followed by '('. This is a deliberately conservative
// heuristic, not a real parser — it only needs to surface likely cross-file
// call targets for the graph builder, which itself discards anything
// it cannot resolve unambiguously.
var callExprRe = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?)\s*\(`)

var exportKeywordByLanguage = map[string]*regexp.Regexp{
	"typescript": regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type)\s+([A-Za-z_][A-Za-z0-9_]*)`),
	"javascript": regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+([A-Za-z_][A-Za-z0-9_]*)`),
}

var callStopwords = map[string]bool{
	"if": true, "for": true, "switch": true, "while": true, "return": true,
	"func": true, "function": true, "catch": true, "defer": true,
}

// extractReferences finds call-expression and export-declaration references
// in content using per-language heuristics. Import references
// are derived separately from the parser's structured metadata when
// available and merged in by the caller.
func extractReferences(path, content string) []extractedReference {
	var refs []extractedReference
	lang := languageFor(path)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lineNo := i + 1

		if exportRe, ok := exportKeywordByLanguage[lang]; ok {
			if m := exportRe.FindStringSubmatch(line); m != nil {
				refs = append(refs, extractedReference{Name: m[1], Line: lineNo, Kind: core.RefExport})
			}
		}

		for _, m := range callExprRe.FindAllStringSubmatch(line, -1) {
			name := m[1]
			bare := name
			if idx := strings.LastIndexByte(bare, '.'); idx != -1 {
				bare = bare[idx+1:]
			}
			if callStopwords[strings.ToLower(bare)] {
				continue
			}
			refs = append(refs, extractedReference{Name: name, Line: lineNo, Kind: core.RefCall})
		}
	}
	return refs
}

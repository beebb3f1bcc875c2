package indexer

import (
	"strings"

	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/grepiku/internal/core"
)

// symbolChunkTypes are the goframe chunk.Type values that represent a
// declaration rather than a generic text slice; these become Symbol rows
// instead of (or in addition to) embedding chunks.
var symbolChunkTypes = map[string]string{
	"function":  "function",
	"method":    "method",
	"class":     "class",
	"struct":    "struct",
	"interface": "interface",
	"enum":      "enum",
}

// classLikeKinds marks which symbol kinds contain other symbols via the
// class_contains_symbol edge rather than plain symbol_contains_symbol.
var classLikeKinds = map[string]bool{
	"class":     true,
	"struct":    true,
	"interface": true,
}

// parsedFile is everything the indexer extracted from one file's content.
type parsedFile struct {
	PackageName string
	Imports     []string
	Symbols     []extractedSymbol
	References  []extractedReference
}

type extractedSymbol struct {
	Name      string
	Kind      string
	StartLine int
	EndLine   int
	Signature string
}

type extractedReference struct {
	Name string
	Line int
	Kind core.ReferenceKind
}

// parseFile extracts structural metadata, symbols, and references for one
// file, using the registered language parser when available. Parser errors
// are non-fatal and are not returned: a file with no matching parser gets
// heuristic references only, and a failed metadata or chunk extraction
// leaves those fields empty.
func parseFile(registry parsers.ParserRegistry, fullPath, relPath, content string) (*parsedFile, error) {
	if registry == nil {
		return &parsedFile{References: extractReferences(relPath, content)}, nil
	}

	parser, err := registry.GetParserForFile(fullPath, nil)
	if err != nil {
		return &parsedFile{References: extractReferences(relPath, content)}, nil
	}

	const maxParseChars = 200_000
	truncated := content
	if len(truncated) > maxParseChars {
		truncated = truncated[:maxParseChars]
	}

	pf := &parsedFile{}

	if meta, err := parser.ExtractMetadata(truncated, fullPath); err == nil {
		pf.PackageName = meta.PackageName
		pf.Imports = meta.Imports
	}

	chunks, err := parser.Chunk(truncated, relPath, nil)
	if err == nil {
		for _, c := range chunks {
			kind, isSymbol := symbolChunkTypes[strings.ToLower(c.Type)]
			if !isSymbol {
				continue
			}
			pf.Symbols = append(pf.Symbols, extractedSymbol{
				Name:      c.Identifier,
				Kind:      kind,
				StartLine: c.LineStart,
				EndLine:   c.LineEnd,
				Signature: firstLine(c.Content),
			})
		}
	}

	for _, imp := range pf.Imports {
		pf.References = append(pf.References, extractedReference{Name: imp, Kind: core.RefImport})
	}
	pf.References = append(pf.References, extractReferences(relPath, truncated)...)

	return pf, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i != -1 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	const maxSigLen = 240
	if len(s) > maxSigLen {
		s = s[:maxSigLen]
	}
	return s
}

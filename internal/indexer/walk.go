package indexer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxFileBytes is the per-file size ceiling; larger files are skipped
// entirely rather than truncated, so they never appear half-indexed.
const maxFileBytes = 1 << 20 // 1 MiB

// printableRatioThreshold is the minimum fraction of printable runes over a
// 4 KiB prefix required for a file with no recognized language to be
// considered source text rather than binary.
const printableRatioThreshold = 0.92

// printableRatioPrefix bounds how much of a file is sampled to decide
// whether it is text.
const printableRatioPrefix = 4096

// skipDirNames are directory basenames the walker never descends into,
// regardless of depth.
var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".grepiku":     true,
	".cache":       true,
	"__pycache__":  true,
}

var languageByExt = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".py":   "python",
	".java": "java",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".hpp":  "cpp",
	".rs":   "rust",
	".rb":   "ruby",
	".cs":   "csharp",
	".kt":   "kotlin",
	".php":  "php",
}

// languageFor maps a path's extension to a known language name, or "" when
// the extension is unrecognized (the file may still be indexed as plain
// text if it passes the printable-ratio check).
func languageFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return languageByExt[ext]
}

// candidateFile is one file discovered by walk, not yet read or hashed.
type candidateFile struct {
	Path string // relative to repo root, forward-slash separated
	Size int64
}

// walk discovers every indexable file under root, applying the directory
// skip-list and excludeDirs from the resolved repo config.
func walk(root string, excludeDirs []string) ([]candidateFile, error) {
	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[d] = true
	}

	var files []candidateFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if path != root && (skipDirNames[name] || excluded[name] || (strings.HasPrefix(name, ".") && name != ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Size() > maxFileBytes {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, candidateFile{
			Path: filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// readIndexable reads a file and reports whether it qualifies for indexing:
// no NUL bytes, and either a known language or a printable-ratio prefix
// above threshold.
func readIndexable(fullPath string) (content []byte, language string, ok bool, err error) {
	content, err = os.ReadFile(fullPath)
	if err != nil {
		return nil, "", false, err
	}
	if bytes.IndexByte(content, 0) != -1 {
		return nil, "", false, nil
	}
	language = languageFor(fullPath)
	if language != "" {
		return content, language, true, nil
	}
	prefix := content
	if len(prefix) > printableRatioPrefix {
		prefix = prefix[:printableRatioPrefix]
	}
	if !isPrintableEnough(prefix) {
		return nil, "", false, nil
	}
	return content, "", true, nil
}

func isPrintableEnough(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	total, printable := 0, 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		total++
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r == '\n' || r == '\t' || r == '\r' || (r >= 0x20 && r != 0x7f) {
			printable++
		}
	}
	if total == 0 {
		return true
	}
	return float64(printable)/float64(total) >= printableRatioThreshold
}

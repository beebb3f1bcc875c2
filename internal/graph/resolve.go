package graph

import (
	"path"
	"strings"
)

// extensionFamilies groups extensions that resolve interchangeably when one
// importer in the family references a bare module specifier.
var extensionFamilies = [][]string{
	{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts"},
	{".go"},
	{".rs"},
	{".py"},
}

func familyFor(ext string) []string {
	for _, fam := range extensionFamilies {
		for _, e := range fam {
			if e == ext {
				return fam
			}
		}
	}
	return []string{ext}
}

// indexResolver resolves import specifiers to internal file paths using the
// set of files actually indexed for a repo.
type indexResolver struct {
	filesByPath map[string]bool
	dirToFiles  map[string][]string // directory -> file paths directly inside it
	moduleRoot  string              // best-effort repo module/package prefix, e.g. a go.mod module path; may be ""
}

func newIndexResolver(paths []string, moduleRoot string) *indexResolver {
	r := &indexResolver{
		filesByPath: make(map[string]bool, len(paths)),
		dirToFiles:  make(map[string][]string),
		moduleRoot:  moduleRoot,
	}
	for _, p := range paths {
		r.filesByPath[p] = true
		dir := path.Dir(p)
		r.dirToFiles[dir] = append(r.dirToFiles[dir], p)
	}
	return r
}

// resolveImport attempts to map an import spec, seen inside importerPath, to
// one internal file path. Returns "" if unresolved (the reference becomes an
// external node instead).
func (r *indexResolver) resolveImport(importerPath, spec string) string {
	ext := strings.ToLower(path.Ext(importerPath))
	family := familyFor(ext)

	switch ext {
	case ".go", ".rs":
		return r.resolveModulePath(spec)
	case ".py":
		return r.resolvePythonImport(importerPath, spec)
	default:
		return r.resolveRelative(importerPath, spec, family)
	}
}

// resolveModulePath handles Go/Rust-style module paths: exact file matches
// are rare (imports name packages, not files), so this resolves to a
// representative file inside the matching local directory when the import's
// final path segment names a directory we indexed, optionally gated by the
// repo's own module root so third-party packages never falsely resolve.
func (r *indexResolver) resolveModulePath(spec string) string {
	segment := spec
	if idx := strings.LastIndexByte(segment, '/'); idx != -1 {
		segment = segment[idx+1:]
	}
	if segment == "" {
		return ""
	}
	if r.moduleRoot != "" && !strings.HasPrefix(spec, r.moduleRoot) {
		return ""
	}
	for dir, files := range r.dirToFiles {
		if path.Base(dir) == segment && len(files) > 0 {
			return representativeFile(files)
		}
	}
	return ""
}

// resolvePythonImport applies relative-dot semantics: a single leading dot
// names the importer's own package and each further dot moves one level up,
// dotted segments become path components, with an __init__ fallback per
// package directory.
func (r *indexResolver) resolvePythonImport(importerPath, spec string) string {
	dir := path.Dir(importerPath)
	rest := spec
	dots := 0
	for strings.HasPrefix(rest, ".") {
		rest = strings.TrimPrefix(rest, ".")
		if dots > 0 {
			dir = path.Dir(dir)
		}
		dots++
	}
	rest = strings.ReplaceAll(rest, ".", "/")
	if rest == "" {
		rest = "."
	}
	candidate := path.Join(dir, rest)
	if r.filesByPath[candidate+".py"] {
		return candidate + ".py"
	}
	if r.filesByPath[path.Join(candidate, "__init__.py")] {
		return path.Join(candidate, "__init__.py")
	}
	return ""
}

// resolveRelative handles "./" and "../" specifiers common to JS/TS,
// trying each extension in family plus an index.* fallback.
func (r *indexResolver) resolveRelative(importerPath, spec string, family []string) string {
	if !strings.HasPrefix(spec, ".") {
		return "" // bare package specifiers (npm-style) are always external
	}
	base := path.Join(path.Dir(importerPath), spec)
	for _, ext := range family {
		if r.filesByPath[base+ext] {
			return base + ext
		}
	}
	if r.filesByPath[base] {
		return base
	}
	for _, ext := range family {
		candidate := path.Join(base, "index"+ext)
		if r.filesByPath[candidate] {
			return candidate
		}
	}
	return ""
}

func representativeFile(files []string) string {
	best := files[0]
	for _, f := range files {
		if path.Base(f) < path.Base(best) {
			best = f
		}
	}
	return best
}

// packageRoot derives the external-node key for an unresolved import: the
// first path segment for dotted/slashed specifiers, or the bare specifier
// itself.
func packageRoot(spec string) string {
	spec = strings.TrimPrefix(spec, "@")
	if idx := strings.IndexByte(spec, '/'); idx != -1 {
		return spec[:idx]
	}
	if idx := strings.IndexByte(spec, '.'); idx != -1 && !strings.HasPrefix(spec, ".") {
		return spec[:idx]
	}
	return spec
}

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRelative_TypeScript(t *testing.T) {
	r := newIndexResolver([]string{"src/foo.ts", "src/bar/baz.ts", "src/bar/index.ts"}, "")

	assert.Equal(t, "src/bar/baz.ts", r.resolveImport("src/foo.ts", "./bar/baz"))
	assert.Equal(t, "src/bar/index.ts", r.resolveImport("src/foo.ts", "./bar"))
	assert.Equal(t, "", r.resolveImport("src/foo.ts", "lodash"), "bare npm specifiers are always external")
}

func TestResolveModulePath_Go(t *testing.T) {
	r := newIndexResolver([]string{"internal/widget/widget.go", "internal/widget/helper.go"}, "github.com/acme/app")

	assert.Equal(t, "internal/widget/helper.go", r.resolveImport("cmd/main.go", "github.com/acme/app/internal/widget"))
	assert.Equal(t, "", r.resolveImport("cmd/main.go", "github.com/other/widget"), "third-party import with matching segment but wrong module root stays external")
}

func TestResolvePythonImport_RelativeDots(t *testing.T) {
	r := newIndexResolver([]string{"pkg/sub/mod.py", "pkg/sub/__init__.py", "pkg/other.py"}, "")

	assert.Equal(t, "pkg/sub/mod.py", r.resolveImport("pkg/sub/entry.py", ".mod"))
	assert.Equal(t, "pkg/other.py", r.resolveImport("pkg/sub/entry.py", "..other"))
}

func TestPackageRoot(t *testing.T) {
	assert.Equal(t, "lodash", packageRoot("lodash/debounce"))
	assert.Equal(t, "requests", packageRoot("requests"))
	assert.Equal(t, "os", packageRoot("os.path"))
}

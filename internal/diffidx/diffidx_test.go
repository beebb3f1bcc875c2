package diffidx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
)

const samplePatch = `diff --git a/src/foo.ts b/src/foo.ts
index 1111111..2222222 100644
--- a/src/foo.ts
+++ b/src/foo.ts
@@ -40,6 +40,7 @@ function doThing(x) {
 function doThing(x) {
   const y = compute(x);
   if (y == null) {
+    throw new Error("null y");
   }
   return y.value;
 }
`

func TestParse_Files(t *testing.T) {
	idx, err := Parse(samplePatch)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/foo.ts"}, idx.Files())
}

func TestIsLineInDiff(t *testing.T) {
	idx, err := Parse(samplePatch)
	require.NoError(t, err)

	assert.True(t, idx.IsLineInDiff("src/foo.ts", 43, core.SideRight), "added line should be on the diff's RIGHT side")
	assert.True(t, idx.IsLineInDiff("src/foo.ts", 40, core.SideRight), "unchanged context line is addressable on RIGHT")
	assert.True(t, idx.IsLineInDiff("src/foo.ts", 40, core.SideLeft), "unchanged context line is addressable on LEFT")
	assert.False(t, idx.IsLineInDiff("src/foo.ts", 46, core.SideLeft), "the hunk's old range ends at line 45, so LEFT 46 is outside it")
	assert.False(t, idx.IsLineInDiff("src/other.ts", 1, core.SideRight), "untouched file is never in the diff")
}

func TestPathNormalization_PreservesLiteralAB(t *testing.T) {
	patch := `diff --git a/a/weird.go b/a/weird.go
--- a/a/weird.go
+++ b/a/weird.go
@@ -1,1 +1,1 @@
-old
+new
`
	idx, err := Parse(patch)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/weird.go"}, idx.Files(), "only one leading a/ or b/ prefix should be stripped")
}

func TestHunkHash_StableAcrossUnrelatedShift(t *testing.T) {
	idx1, err := Parse(samplePatch)
	require.NoError(t, err)
	hash1, ok := idx1.HunkHash("src/foo.ts", 43, core.SideRight)
	require.True(t, ok)

	shifted := `diff --git a/src/foo.ts b/src/foo.ts
index 1111111..2222222 100644
--- a/src/foo.ts
+++ b/src/foo.ts
@@ -60,6 +60,7 @@ function doThing(x) {
 function doThing(x) {
   const y = compute(x);
   if (y == null) {
+    throw new Error("null y");
   }
   return y.value;
 }
`
	idx2, err := Parse(shifted)
	require.NoError(t, err)
	hash2, ok := idx2.HunkHash("src/foo.ts", 63, core.SideRight)
	require.True(t, ok)

	assert.Equal(t, hash1, hash2, "hunk_hash depends on hunk content, not its line position")
	assert.Len(t, hash1, 16)
}

func TestContextHash_LimitedToUnchangedNeighbors(t *testing.T) {
	idx, err := Parse(samplePatch)
	require.NoError(t, err)
	h1, ok := idx.ContextHash("src/foo.ts", 43, core.SideRight)
	require.True(t, ok)

	h2, ok := idx.ContextHash("src/foo.ts", 40, core.SideRight)
	require.True(t, ok)
	assert.NotEqual(t, h1, h2, "line 40 opens the hunk, so its ±3 window holds fewer unchanged lines than line 43's")
}

func TestHunkHash_MissingLineReturnsFalse(t *testing.T) {
	idx, err := Parse(samplePatch)
	require.NoError(t, err)
	_, ok := idx.HunkHash("src/foo.ts", 9999, core.SideRight)
	assert.False(t, ok)
}

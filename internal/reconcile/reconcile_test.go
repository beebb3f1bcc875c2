package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
)

const patch = `diff --git a/src/foo.go b/src/foo.go
--- a/src/foo.go
+++ b/src/foo.go
@@ -10,4 +10,5 @@ func run() {
 func run() {
   a := 1
+  b := doThing(a)
   return a
 }
`

func mustParse(t *testing.T, p string) *diffidx.Index {
	t.Helper()
	idx, err := diffidx.Parse(p)
	require.NoError(t, err)
	return idx
}

func TestReconcile_NewFindingCreated(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	drafts := []core.DraftComment{
		{Path: "src/foo.go", Line: 12, Side: core.SideRight, Category: core.CategoryBug, Title: "unchecked error", Body: "b"},
	}

	res := rec.Reconcile(Params{RunID: 2, PullRequestID: 1, Drafts: drafts, DiffIndex: idx})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, core.FindingOpen, res.Findings[0].Status)
	assert.Equal(t, int64(2), res.Findings[0].FirstSeenRunID)
}

func TestReconcile_ExactMatchKeyUpdatesInPlace(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	hunkHash, ok := idx.HunkHash("src/foo.go", 12, core.SideRight)
	require.True(t, ok)
	fp := fingerprint(string(core.CategoryBug), "unchecked error", "src/foo.go")
	mk := matchKey(fp, "src/foo.go", hunkHash, "unchecked error")

	prior := core.Finding{
		ID: 7, Status: core.FindingOpen, Fingerprint: fp, HunkHash: hunkHash,
		Path: "src/foo.go", Line: 12, Side: core.SideRight,
		Category: core.CategoryBug, Title: "unchecked error", Body: "old body",
		FirstSeenRunID: 1, LastSeenRunID: 1,
	}
	require.Equal(t, mk, computeMatchKey(prior))

	drafts := []core.DraftComment{
		{Path: "src/foo.go", Line: 12, Side: core.SideRight, Category: core.CategoryBug, Title: "unchecked error", Body: "new body"},
	}

	res := rec.Reconcile(Params{RunID: 2, PullRequestID: 1, Drafts: drafts, PriorOpen: []core.Finding{prior}, DiffIndex: idx})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, int64(7), res.Findings[0].ID, "matched draft should update the existing finding, not create a new one")
	assert.Equal(t, "new body", res.Findings[0].Body)
	assert.Equal(t, int64(1), res.Findings[0].FirstSeenRunID)
	assert.Equal(t, int64(2), res.Findings[0].LastSeenRunID)
}

func TestReconcile_UnmatchedPriorBecomesFixedWhenPathStillInDiff(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	prior := core.Finding{
		ID: 9, Status: core.FindingOpen, Path: "src/foo.go", Line: 99, Side: core.SideRight,
		Category: core.CategorySecurity, Title: "something else entirely",
	}

	res := rec.Reconcile(Params{RunID: 3, PullRequestID: 1, PriorOpen: []core.Finding{prior}, DiffIndex: idx})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, core.FindingFixed, res.Findings[0].Status)
}

func TestReconcile_UnmatchedPriorBecomesObsoleteWhenPathGone(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	prior := core.Finding{
		ID: 11, Status: core.FindingOpen, Path: "src/other.go", Line: 1,
		Category: core.CategoryBug, Title: "stale finding",
	}

	res := rec.Reconcile(Params{RunID: 3, PullRequestID: 1, PriorOpen: []core.Finding{prior}, DiffIndex: idx})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, core.FindingObsolete, res.Findings[0].Status)
}

func TestReconcile_IncrementalCarriesOverUntouchedPaths(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	prior := core.Finding{
		ID: 13, Status: core.FindingOpen, Path: "src/untouched.go", Line: 1,
		Category: core.CategoryBug, Title: "carried finding",
	}

	res := rec.Reconcile(Params{
		RunID: 4, PullRequestID: 1, PriorOpen: []core.Finding{prior}, DiffIndex: idx,
		Incremental: true, TouchedPaths: map[string]bool{"src/foo.go": true},
	})
	require.Len(t, res.Findings, 1)
	assert.Equal(t, core.FindingOpen, res.Findings[0].Status, "untouched-path findings are carried over, not swept")
	assert.Equal(t, 1, res.CarriedOverCount)
}

func TestReconcile_NeverClaimsSamePriorTwice(t *testing.T) {
	idx := mustParse(t, patch)
	rec := New()

	prior := core.Finding{
		ID: 21, Status: core.FindingOpen, Path: "src/foo.go", Line: 12, Side: core.SideRight,
		Category: core.CategoryBug, Title: "duplicate target", HunkHash: mustHunkHash(t, idx, "src/foo.go", 12),
	}

	drafts := []core.DraftComment{
		{Path: "src/foo.go", Line: 12, Side: core.SideRight, Category: core.CategoryBug, Title: "duplicate target variant one"},
		{Path: "src/foo.go", Line: 12, Side: core.SideRight, Category: core.CategoryBug, Title: "duplicate target variant two"},
	}

	res := rec.Reconcile(Params{RunID: 5, PullRequestID: 1, Drafts: drafts, PriorOpen: []core.Finding{prior}, DiffIndex: idx})

	matchedCount := 0
	for _, f := range res.Findings {
		if f.ID == 21 {
			matchedCount++
		}
	}
	assert.Equal(t, 1, matchedCount, "only one draft may claim a given prior finding")
	assert.Len(t, res.Findings, 2, "the unmatched draft becomes its own new finding")
}

func mustHunkHash(t *testing.T, idx *diffidx.Index, path string, line int) string {
	t.Helper()
	h, ok := idx.HunkHash(path, line, core.SideRight)
	require.True(t, ok)
	return h
}

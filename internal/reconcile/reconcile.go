package reconcile

import (
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
)

// Reconciler matches draft findings from the current run against
// previously-open findings and retires anything that no longer applies.
type Reconciler struct{}

// New constructs a Reconciler. It is stateless; all inputs are passed to
// Reconcile per call.
func New() *Reconciler { return &Reconciler{} }

// Params is the input to one reconciliation pass.
type Params struct {
	RunID         int64
	PullRequestID int64
	Drafts        []core.DraftComment
	PriorOpen     []core.Finding
	DiffIndex     *diffidx.Index
	// Incremental restricts the fixed/obsolete sweep to TouchedPaths; prior
	// open findings outside that set are carried over untouched and counted
	// in CarriedOverCount instead.
	Incremental  bool
	TouchedPaths map[string]bool
}

// Result is the reconciled finding set ready to upsert, plus the
// incremental-mode carry-over summary line count.
type Result struct {
	Findings         []core.Finding
	CarriedOverCount int
}

// Reconcile runs the full matching-and-retirement procedure.
func (r *Reconciler) Reconcile(p Params) Result {
	claimed := make(map[int64]bool, len(p.PriorOpen))
	matchedKeySet := make(map[string]bool, len(p.Drafts))

	var out []core.Finding

	for _, draft := range p.Drafts {
		hunkHash, _ := p.DiffIndex.HunkHash(draft.Path, draft.Line, draft.Side)
		contextHash, _ := p.DiffIndex.ContextHash(draft.Path, draft.Line, draft.Side)
		fp := fingerprint(string(draft.Category), draft.Title, draft.Path)
		mk := matchKey(fp, draft.Path, hunkHash, draft.Title)
		matchedKeySet[mk] = true

		prior := r.findMatch(draft, mk, hunkHash, p.PriorOpen, claimed)
		if prior != nil {
			claimed[prior.ID] = true
			out = append(out, applyDraft(*prior, draft, hunkHash, contextHash, fp, p.RunID))
			continue
		}

		out = append(out, core.Finding{
			PullRequestID:  p.PullRequestID,
			FirstSeenRunID: p.RunID,
			LastSeenRunID:  p.RunID,
			Status:         core.FindingOpen,
			Fingerprint:    fp,
			HunkHash:       hunkHash,
			ContextHash:    contextHash,
			Path:           draft.Path,
			Line:           draft.Line,
			Side:           draft.Side,
			Severity:       draft.Severity,
			Category:       draft.Category,
			Title:          draft.Title,
			Body:           draft.Body,
			Evidence:       draft.Evidence,
			SuggestedPatch: draft.SuggestedPatch,
			RuleID:         draft.RuleID,
		})
	}

	touched := make(map[string]bool, len(p.TouchedPaths))
	for path, ok := range p.TouchedPaths {
		if ok {
			touched[normalizePath(path)] = true
		}
	}

	carried := 0
	for _, prior := range p.PriorOpen {
		if claimed[prior.ID] || matchedKeySet[computeMatchKey(prior)] {
			continue
		}
		if p.Incremental && !touched[normalizePath(prior.Path)] {
			out = append(out, prior) // carried over untouched, still open
			carried++
			continue
		}
		retired := prior
		if p.DiffIndex.HasPath(prior.Path) {
			retired.Status = core.FindingFixed
		} else {
			retired.Status = core.FindingObsolete
		}
		retired.LastSeenRunID = p.RunID
		out = append(out, retired)
	}

	return Result{Findings: out, CarriedOverCount: carried}
}

// findMatch implements the four-tier match cascade, returning
// nil when no prior qualifies.
func (r *Reconciler) findMatch(draft core.DraftComment, mk, hunkHash string, priors []core.Finding, claimed map[int64]bool) *core.Finding {
	normPath := normalizePath(draft.Path)

	// Tier 1: exact match_key.
	for i := range priors {
		p := &priors[i]
		if claimed[p.ID] {
			continue
		}
		if computeMatchKey(*p) == mk {
			return p
		}
	}

	// Tier 2: same (path, hunk_hash, category), nearest line.
	if hunkHash != "" {
		var candidates []*core.Finding
		for i := range priors {
			p := &priors[i]
			if claimed[p.ID] {
				continue
			}
			if normalizePath(p.Path) == normPath && p.HunkHash == hunkHash && p.Category == draft.Category {
				candidates = append(candidates, p)
			}
		}
		if best := nearestLine(candidates, draft.Line); best != nil {
			return best
		}
	}

	// Tier 3: semantic title similarity within (path, category).
	var semCandidates []*core.Finding
	for i := range priors {
		p := &priors[i]
		if claimed[p.ID] {
			continue
		}
		if normalizePath(p.Path) != normPath || p.Category != draft.Category {
			continue
		}
		if titleSimilarity(p.Title, draft.Title) >= titleSimilarityThreshold {
			semCandidates = append(semCandidates, p)
		}
	}
	if best := nearestLine(semCandidates, draft.Line); best != nil {
		return best
	}

	// Tier 4: same (path, category, normalized title), nearest line.
	normTitle := normalizeTitle(draft.Title)
	var titleCandidates []*core.Finding
	for i := range priors {
		p := &priors[i]
		if claimed[p.ID] {
			continue
		}
		if normalizePath(p.Path) == normPath && p.Category == draft.Category && normalizeTitle(p.Title) == normTitle {
			titleCandidates = append(titleCandidates, p)
		}
	}
	return nearestLine(titleCandidates, draft.Line)
}

func nearestLine(candidates []*core.Finding, targetLine int) *core.Finding {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	bestDist := abs(best.Line - targetLine)
	for _, c := range candidates[1:] {
		d := abs(c.Line - targetLine)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// computeMatchKey recomputes a stored finding's match_key from its
// persisted fields, for tier-1 comparison against a draft's freshly
// computed key.
func computeMatchKey(f core.Finding) string {
	return matchKey(f.Fingerprint, f.Path, f.HunkHash, f.Title)
}

// applyDraft updates a matched prior finding in place with the current
// draft's fields.
func applyDraft(prior core.Finding, draft core.DraftComment, hunkHash, contextHash, fp string, runID int64) core.Finding {
	prior.Status = core.FindingOpen
	prior.LastSeenRunID = runID
	prior.Fingerprint = fp
	prior.HunkHash = hunkHash
	prior.ContextHash = contextHash
	prior.Path = draft.Path
	prior.Line = draft.Line
	prior.Side = draft.Side
	prior.Severity = draft.Severity
	prior.Body = draft.Body
	prior.Evidence = draft.Evidence
	prior.SuggestedPatch = draft.SuggestedPatch
	prior.RuleID = draft.RuleID
	prior.Title = draft.Title
	return prior
}

package orchestrator

import "github.com/sevigo/grepiku/internal/core"

// applyVerdicts folds the editor's per-comment
// disposition onto the reviewer's draft set. A comment the editor never
// mentions is kept as-is, matching the editor prompt's instruction to
// return a verdict for every draft comment it was given.
func applyVerdicts(draft []core.DraftComment, verdicts core.VerdictsOutput) []core.DraftComment {
	byID := make(map[string]core.Verdict, len(verdicts.Verdicts))
	for _, v := range verdicts.Verdicts {
		byID[v.CommentID] = v
	}

	out := make([]core.DraftComment, 0, len(draft))
	for _, c := range draft {
		v, ok := byID[c.CommentID]
		if !ok {
			out = append(out, c)
			continue
		}
		switch v.Action {
		case core.VerdictDrop:
			continue
		case core.VerdictRevise:
			if v.RevisedComment != nil {
				out = append(out, *v.RevisedComment)
			} else {
				out = append(out, c)
			}
		default: // keep, or an unrecognized action
			out = append(out, c)
		}
	}
	return out
}

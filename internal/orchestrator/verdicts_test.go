package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/core"
)

func TestApplyVerdicts_DropRemovesComment(t *testing.T) {
	draft := []core.DraftComment{
		{CommentID: "c1", Title: "unused import"},
		{CommentID: "c2", Title: "missing error check"},
	}
	verdicts := core.VerdictsOutput{Verdicts: []core.Verdict{
		{CommentID: "c1", Action: core.VerdictDrop},
	}}

	out := applyVerdicts(draft, verdicts)

	assert.Len(t, out, 1)
	assert.Equal(t, "c2", out[0].CommentID)
}

func TestApplyVerdicts_ReviseSwapsInRevisedComment(t *testing.T) {
	draft := []core.DraftComment{
		{CommentID: "c1", Title: "original title", Body: "original body"},
	}
	revised := core.DraftComment{CommentID: "c1", Title: "sharper title", Body: "sharper body"}
	verdicts := core.VerdictsOutput{Verdicts: []core.Verdict{
		{CommentID: "c1", Action: core.VerdictRevise, RevisedComment: &revised},
	}}

	out := applyVerdicts(draft, verdicts)

	assert.Len(t, out, 1)
	assert.Equal(t, "sharper title", out[0].Title)
	assert.Equal(t, "sharper body", out[0].Body)
}

func TestApplyVerdicts_ReviseWithoutRevisedCommentKeepsOriginal(t *testing.T) {
	draft := []core.DraftComment{
		{CommentID: "c1", Title: "original title"},
	}
	verdicts := core.VerdictsOutput{Verdicts: []core.Verdict{
		{CommentID: "c1", Action: core.VerdictRevise, RevisedComment: nil},
	}}

	out := applyVerdicts(draft, verdicts)

	assert.Len(t, out, 1)
	assert.Equal(t, "original title", out[0].Title)
}

func TestApplyVerdicts_UnmentionedCommentDefaultsToKeep(t *testing.T) {
	draft := []core.DraftComment{
		{CommentID: "c1", Title: "t1"},
		{CommentID: "c2", Title: "t2"},
	}
	verdicts := core.VerdictsOutput{Verdicts: []core.Verdict{
		{CommentID: "c1", Action: core.VerdictKeep},
	}}

	out := applyVerdicts(draft, verdicts)

	assert.Len(t, out, 2)
}

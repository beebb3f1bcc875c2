package stagerunner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAndRepairJSON_PassesValidJSONThrough(t *testing.T) {
	doc, err := extractAndRepairJSON(`{"summary":"ok","comments":[]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","comments":[]}`, string(doc))
}

func TestExtractAndRepairJSON_StripsCodeFence(t *testing.T) {
	raw := "```json\n{\"summary\":\"ok\",\"comments\":[]}\n```"
	doc, err := extractAndRepairJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","comments":[]}`, string(doc))
}

func TestExtractAndRepairJSON_StripsSurroundingProseAndTrailingComma(t *testing.T) {
	raw := "Here is the review:\n{\"summary\":\"ok\",\"comments\":[1,2,],}\nThanks!"
	doc, err := extractAndRepairJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","comments":[1,2]}`, string(doc))
}

func TestExtractAndRepairJSON_UnrepairableReturnsErr(t *testing.T) {
	_, err := extractAndRepairJSON("not json at all, no braces here")
	require.ErrorIs(t, err, ErrStageOutputInvalid)
}

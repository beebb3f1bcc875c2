package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/core"
)

func TestShouldTriggerReview_NilConfigAlwaysTriggers(t *testing.T) {
	assert.True(t, shouldTriggerReview(nil, &core.WebhookEvent{}))
}

func TestShouldTriggerReview_ManualOnlyNeverTriggersOffWebhook(t *testing.T) {
	cfg := &core.TriggerConfig{ManualOnly: true}
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{}))
}

func TestShouldTriggerReview_DraftSuppressedUnlessAllowed(t *testing.T) {
	ev := &core.WebhookEvent{Draft: true}
	assert.False(t, shouldTriggerReview(&core.TriggerConfig{}, ev))
	assert.True(t, shouldTriggerReview(&core.TriggerConfig{AllowDrafts: true}, ev))
}

func TestShouldTriggerReview_IncludeLabelsRequiresAMatch(t *testing.T) {
	cfg := &core.TriggerConfig{IncludeLabels: []string{"needs-review"}}
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{Labels: []string{"wip"}}))
	assert.True(t, shouldTriggerReview(cfg, &core.WebhookEvent{Labels: []string{"needs-review"}}))
}

func TestShouldTriggerReview_ExcludeLabelsWins(t *testing.T) {
	cfg := &core.TriggerConfig{ExcludeLabels: []string{"wip"}}
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{Labels: []string{"wip"}}))
}

func TestShouldTriggerReview_BranchGlobMatches(t *testing.T) {
	cfg := &core.TriggerConfig{IncludeBranches: []string{"release/*"}}
	assert.True(t, shouldTriggerReview(cfg, &core.WebhookEvent{HeadRef: "release/1.2"}))
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{HeadRef: "feature/x"}))
}

func TestShouldTriggerReview_ExcludeAuthorsIsCaseInsensitive(t *testing.T) {
	cfg := &core.TriggerConfig{ExcludeAuthors: []string{"dependabot[bot]"}}
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{Author: "Dependabot[bot]"}))
}

func TestShouldTriggerReview_KeywordsMatchTitleOrBody(t *testing.T) {
	cfg := &core.TriggerConfig{IncludeKeywords: []string{"hotfix"}}
	assert.True(t, shouldTriggerReview(cfg, &core.WebhookEvent{PRTitle: "HOTFIX: fix crash"}))
	assert.False(t, shouldTriggerReview(cfg, &core.WebhookEvent{PRTitle: "unrelated change"}))
}

package core

import "strings"

// WebhookEventType classifies a verified inbound event as seen by the
// scheduler. Signature verification and payload parsing happen in the
// receiver; only the normalized shape crosses into this package.
type WebhookEventType string

const (
	EventPullRequest WebhookEventType = "pull_request"
	EventComment     WebhookEventType = "comment"
	EventReaction    WebhookEventType = "reaction"
)

// CommentTrigger is the command detected in an issue/review comment body.
type CommentTrigger string

const (
	TriggerNone   CommentTrigger = ""
	TriggerReview CommentTrigger = "review"
	TriggerMention CommentTrigger = "mention"
)

// WebhookEvent is the normalized shape the receiver hands to the scheduler.
// It deliberately carries only what the scheduler needs to classify,
// debounce, and enqueue — never the raw provider payload.
type WebhookEvent struct {
	Provider       string
	Type           WebhookEventType
	Action         string
	InstallationID int64

	RepoOwner    string
	RepoName     string
	RepoFullName string
	RepoCloneURL string
	Language     string

	PRNumber int
	PRTitle  string
	PRBody   string
	PRState  string
	HeadRef  string
	BaseRef  string
	HeadSHA  string
	BaseSHA  string
	Draft    bool
	Author   string
	Labels   []string

	// Comment/reaction fields, set only when Type != EventPullRequest.
	CommentID        string
	CommentBody      string
	CommentAuthor    string
	InReplyToID      string
	ReactionContent  string

	// HeadCommitMessage is populated for `synchronize` actions so the
	// scheduler can suppress auto-accepted-suggestion pushes.
	HeadCommitMessage string
}

// IsBotComment reports whether the comment author is the bot itself,
// tolerating a GitHub App's "[bot]" login suffix and case differences.
func IsBotComment(author, botLogin string) bool {
	a := strings.ToLower(strings.TrimSuffix(strings.ToLower(author), "[bot]"))
	b := strings.ToLower(strings.TrimSuffix(strings.ToLower(botLogin), "[bot]"))
	return a != "" && a == b
}

// SuppressedSynchronize reports whether a `synchronize` push should be
// skipped because it was produced by accepting one or more suggested
// changes.
func SuppressedSynchronize(headCommitMessage string) bool {
	msg := strings.ToLower(strings.TrimSpace(headCommitMessage))
	return strings.HasPrefix(msg, "apply suggestion")
}

var negationPrefixes = []string{"not ", "isn't ", "is not ", "never "}

// FeedbackResolved reports whether a reply body indicates the finding was
// addressed, honoring a simple negation guard.
func FeedbackResolved(body string) bool {
	b := strings.ToLower(strings.TrimSpace(body))
	for _, neg := range negationPrefixes {
		if strings.HasPrefix(b, neg) {
			return false
		}
	}
	for _, kw := range []string{"fixed", "resolved", "done"} {
		if strings.Contains(b, kw) {
			return true
		}
	}
	return false
}

// DetectCommentTrigger matches a comment body against the configured command
// patterns. Patterns are matched
// case-insensitively against the trimmed body; "@bot" style patterns match
// anywhere in the body, "/review" style patterns must be the whole trimmed
// body (a conventional slash-command).
func DetectCommentTrigger(body string, patterns []string) CommentTrigger {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)
	for _, p := range patterns {
		lp := strings.ToLower(strings.TrimSpace(p))
		if lp == "" {
			continue
		}
		if strings.HasPrefix(lp, "/") {
			if lower == lp {
				return TriggerReview
			}
			continue
		}
		if strings.Contains(lower, lp) {
			return TriggerReview
		}
	}
	return TriggerNone
}

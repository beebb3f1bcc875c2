package forge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// AppCredentials identifies the GitHub App whose installation token backs a
// GitHubClient.
type AppCredentials struct {
	AppID          int64
	PrivateKeyPEM  []byte
	InstallationID int64
}

// NewGitHubInstallationClient exchanges the app's private key for a scoped
// installation token and returns a client authenticated as that
// installation. The token is short-lived (an hour); callers that hold a
// GitHubClient across a long-running job should reconstruct it rather than
// cache it past the token's expiry.
//
// It returns the raw installation token alongside the client because
// callers that need to drive a plain `git` operation against the same
// repository (worktree checkout) need the token for the clone URL's
// basic-auth credential; the client itself only ever uses it internally.
func NewGitHubInstallationClient(ctx context.Context, creds AppCredentials, logger *slog.Logger) (*GitHubClient, string, error) {
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, creds.AppID, creds.PrivateKeyPEM)
	if err != nil {
		return nil, "", fmt.Errorf("forge: create app transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, creds.InstallationID, nil)
	if err != nil {
		return nil, "", fmt.Errorf("forge: create installation token for installation %d: %w", creds.InstallationID, err)
	}
	if token.GetToken() == "" {
		return nil, "", fmt.Errorf("forge: installation %d returned an empty token", creds.InstallationID)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubClient(github.NewClient(tc), logger), token.GetToken(), nil
}

// NewGitHubPATClient authenticates with a personal access token instead of
// an app installation. Used by cmd/cli for local/offline review runs where
// no installation exists.
func NewGitHubPATClient(ctx context.Context, token string, logger *slog.Logger) *GitHubClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubClient(github.NewClient(tc), logger)
}

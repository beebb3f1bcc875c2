package forge

import (
	"context"
	"fmt"
	"log/slog"
)

// Factory mints a ProviderClient bound to one GitHub App installation. It
// satisfies orchestrator.ClientFactory without importing that package,
// the same structural-interface wiring the teacher relies on between
// internal/app and internal/server.
type Factory struct {
	appID         int64
	privateKeyPEM []byte
	logger        *slog.Logger
}

// NewFactory constructs a Factory for one GitHub App, identified by appID
// and its PEM-encoded private key.
func NewFactory(appID int64, privateKeyPEM []byte, logger *slog.Logger) *Factory {
	return &Factory{appID: appID, privateKeyPEM: privateKeyPEM, logger: logger}
}

// NewClient mints an installation-scoped client for provider. Only
// "github" is implemented; any other provider fails closed rather than
// silently falling back to an unauthenticated client.
func (f *Factory) NewClient(ctx context.Context, provider string, installationID int64) (ProviderClient, string, error) {
	if provider != "github" {
		return nil, "", fmt.Errorf("forge: unsupported provider %q: %w", provider, ErrNotSupported)
	}
	client, token, err := NewGitHubInstallationClient(ctx, AppCredentials{
		AppID:          f.appID,
		PrivateKeyPEM:  f.privateKeyPEM,
		InstallationID: installationID,
	}, f.logger)
	if err != nil {
		return nil, "", err
	}
	return client, token, nil
}

// PATFactory mints a ProviderClient authenticated with a single personal
// access token, ignoring installationID. It satisfies the same ClientFactory
// shape as Factory so cmd/cli can drive the orchestrator without a GitHub
// App installation.
type PATFactory struct {
	token  string
	logger *slog.Logger
}

// NewPATFactory constructs a PATFactory for offline/local CLI reviews.
func NewPATFactory(token string, logger *slog.Logger) *PATFactory {
	return &PATFactory{token: token, logger: logger}
}

func (f *PATFactory) NewClient(ctx context.Context, provider string, _ int64) (ProviderClient, string, error) {
	if provider != "github" {
		return nil, "", fmt.Errorf("forge: unsupported provider %q: %w", provider, ErrNotSupported)
	}
	return NewGitHubPATClient(ctx, f.token, f.logger), f.token, nil
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/liketab/internal/sources"
	"github.com/desertthunder/liketab/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthStatus verifies the configured music service token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	service, err := r.resolveService()
	if err != nil {
		return err
	}

	if err := service.Authenticate(ctx, nil); err != nil {
		r.writePlain("%s\n", ui.Err(fmt.Sprintf("✗ %s authentication failed", service.Name())))
		return err
	}

	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Authenticated with %s", service.Name())))
	if accounted, ok := service.(interface{ UID() string }); ok {
		r.writePlain("Account: %s\n", accounted.UID())
	}
	return nil
}

// AuthGoogle verifies the Google credentials file used by the sheets backend.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Credentials.Google.CredentialsFile

	creds, err := sources.LoadGoogleCredentials(path)
	if err != nil {
		r.writePlain("%s\n", ui.Err("✗ Google credentials unusable"))
		return err
	}

	r.writePlain("%s\n", ui.OK(fmt.Sprintf("✓ Google credentials loaded from %s", path)))
	if creds.ClientID != "" {
		r.writePlain("Client: %s\n", creds.ClientID)
	}
	return nil
}

// Google OAuth credential plumbing for the sheets backend.
//
// The sheets backend runs on a delegated authorized-user credential. Access
// tokens are refreshed through [oauth2]; when the API rotates the refresh
// token the new one is handed to a caller-supplied callback so the
// credentials store stays valid across runs.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/liketab/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// spreadsheetScope is the only scope the table store needs.
const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// GoogleCredentials mirrors an authorized-user credentials JSON file.
type GoogleCredentials struct {
	Type         string `json:"type"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// RefreshTokenCallback is invoked with the fresh token whenever the refresh
// token rotated, so the caller can persist it.
type RefreshTokenCallback func(tok *oauth2.Token) error

// LoadGoogleCredentials reads an authorized-user credentials JSON file.
func LoadGoogleCredentials(path string) (*GoogleCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds GoogleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	if creds.Type != "" && creds.Type != "authorized_user" {
		return nil, fmt.Errorf("%w: unsupported credential type %q", shared.ErrInvalidCredentials, creds.Type)
	}
	if creds.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	return &creds, nil
}

// TokenSource builds a self-refreshing [oauth2.TokenSource] from the stored
// credentials. The client id/secret arguments override values embedded in the
// credentials file.
func (c *GoogleCredentials) TokenSource(ctx context.Context, clientID, clientSecret string) (oauth2.TokenSource, error) {
	if clientID == "" {
		clientID = c.ClientID
	}
	if clientSecret == "" {
		clientSecret = c.ClientSecret
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret required for OAuth credentials", shared.ErrMissingCredentials)
	}

	endpoint := google.Endpoint
	if c.TokenURI != "" {
		endpoint.TokenURL = c.TokenURI
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{spreadsheetScope},
	}

	// The file stores no expiry, so the access token is treated as stale
	// and refreshed on first use each run.
	token := &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}

	return oauth2.ReuseTokenSource(token, config.TokenSource(ctx, token)), nil
}

// FileRefreshCallback returns a [RefreshTokenCallback] that rewrites the
// credentials file in place when the refresh token changed. Returns nil for
// an empty path, which disables persistence.
func FileRefreshCallback(path string) RefreshTokenCallback {
	if path == "" {
		return nil
	}

	return func(tok *oauth2.Token) error {
		creds, err := LoadGoogleCredentials(path)
		if err != nil {
			return err
		}

		if tok.RefreshToken == "" || tok.RefreshToken == creds.RefreshToken {
			return nil
		}

		creds.Token = tok.AccessToken
		creds.RefreshToken = tok.RefreshToken

		data, err := json.MarshalIndent(creds, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal credentials: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write credentials file: %w", err)
		}
		return nil
	}
}

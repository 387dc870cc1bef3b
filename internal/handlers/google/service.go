package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// TokenSource mints access tokens from the stored refresh token. The
// refresh happens before every handler call; only the refresh token is
// persisted, never an access token.
func TokenSource(ctx context.Context, cred domain.GoogleCredential) (oauth2.TokenSource, error) {
	if cred.ClientID == "" || cred.ClientSecret == "" || cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: google credential requires client_id, client_secret, refresh_token", domain.ErrAuthInvalid)
	}

	conf := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     googleauth.Endpoint,
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})

	// Mint once up front so an expired or revoked refresh token fails the
	// sync attempt with a credential error instead of deep inside an API
	// call.
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("%w: refresh access token: %v", domain.ErrAuthInvalid, err)
	}

	return ts, nil
}

// NewDriveService creates a Google Drive API service using the provided
// TokenSource.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	return drive.NewService(ctx, option.WithTokenSource(ts))
}

// NewGmailService creates a Gmail API service using the provided
// TokenSource.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource) (*gmail.Service, error) {
	return gmail.NewService(ctx, option.WithTokenSource(ts))
}

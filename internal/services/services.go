// package services defines interface MusicService for interacting with the
// remote music API
package services

import (
	"context"

	"github.com/desertthunder/liketab/internal/models"
)

// MusicService defines the capability set the reconciliation engine needs from
// a remote "liked items" service.
//
// The liked-collection listers must return the complete lists; pagination is
// the implementation's concern and never surfaces to callers. Errors propagate
// unmodified with no retry layer, so callers needing resilience wrap this
// interface.
type MusicService interface {
	// Authenticate verifies credentials against the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// LikedTracks retrieves all liked tracks for the authenticated user.
	LikedTracks(ctx context.Context) ([]models.TrackLike, error)

	// LikedAlbums retrieves all liked albums for the authenticated user.
	LikedAlbums(ctx context.Context) ([]models.AlbumLike, error)

	// LikedArtists retrieves all liked artists for the authenticated user.
	LikedArtists(ctx context.Context) ([]models.ArtistLike, error)

	// AddLikes marks the given ids liked at the given level. Idempotent on
	// the service side; an already-liked id is a no-op.
	AddLikes(ctx context.Context, level models.LikeLevel, ids []string) error

	// RemoveLikes removes likes for the given ids at the given level.
	RemoveLikes(ctx context.Context, level models.LikeLevel, ids []string) error

	// FetchTracks performs a batched track metadata lookup by id.
	FetchTracks(ctx context.Context, ids []string) ([]models.TrackInfo, error)

	// FetchAlbums performs a batched album metadata lookup by id.
	FetchAlbums(ctx context.Context, ids []string) ([]models.AlbumInfo, error)

	// FetchArtists performs a batched artist metadata lookup by id.
	FetchArtists(ctx context.Context, ids []string) ([]models.ArtistInfo, error)

	// Name returns the name of the service (e.g., "Yandex Music")
	Name() string
}

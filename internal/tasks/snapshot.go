package tasks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/desertthunder/liketab/internal/models"
)

// Snapshot fetches the three liked collections from the remote service and
// builds the online snapshot a reconciliation pass compares against.
//
// Each collection is sorted newest-first so membership scans and appends see
// recent likes early. The capture time is recorded for approximating like
// times on the export path.
func (e *LikeEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.OnlineSnapshot, error) {
	now := time.Now().UTC()
	snap := &models.OnlineSnapshot{
		Timestamp: now.Format(time.RFC3339),
		Time:      now.Unix(),
	}

	e.sendProgress(progress, fetchLikedUpdate(FetchTracks, 1, 3, "tracks"))
	tracks, err := e.service.LikedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked tracks: %w", err)
	}
	snap.Tracks = tracks
	e.sendProgress(progress, fetchedLikedUpdate(FetchTracks, 1, 3, "tracks", len(tracks)))

	e.sendProgress(progress, fetchLikedUpdate(FetchAlbums, 2, 3, "albums"))
	albums, err := e.service.LikedAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked albums: %w", err)
	}
	snap.Albums = albums
	e.sendProgress(progress, fetchedLikedUpdate(FetchAlbums, 2, 3, "albums", len(albums)))

	e.sendProgress(progress, fetchLikedUpdate(FetchArtists, 3, 3, "artists"))
	artists, err := e.service.LikedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked artists: %w", err)
	}
	snap.Artists = artists
	e.sendProgress(progress, fetchedLikedUpdate(FetchArtists, 3, 3, "artists", len(artists)))

	sortSnapshot(snap)

	e.logger.Debug("snapshot built",
		"tracks", len(snap.Tracks),
		"albums", len(snap.Albums),
		"artists", len(snap.Artists))
	return snap, nil
}

// sortSnapshot orders each collection newest-first. Ties on the timestamp
// break on an id so the order is deterministic across runs.
func sortSnapshot(snap *models.OnlineSnapshot) {
	sort.SliceStable(snap.Tracks, func(i, j int) bool {
		a, b := snap.Tracks[i], snap.Tracks[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.AlbumID > b.AlbumID
	})
	sort.SliceStable(snap.Albums, func(i, j int) bool {
		a, b := snap.Albums[i], snap.Albums[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return firstArtistID(a.Album.Artists) > firstArtistID(b.Album.Artists)
	})
	sort.SliceStable(snap.Artists, func(i, j int) bool {
		return snap.Artists[i].Timestamp > snap.Artists[j].Timestamp
	})
}

func firstArtistID(artists []models.ArtistInfo) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].ID
}

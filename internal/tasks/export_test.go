package tasks

import (
	"context"
	"reflect"
	"testing"

	"github.com/desertthunder/liketab/internal/models"
	tu "github.com/desertthunder/liketab/internal/testing"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	snap := &models.OnlineSnapshot{
		Tracks:    []models.TrackLike{{ID: "T1"}},
		Albums:    []models.AlbumLike{{Album: models.AlbumInfo{ID: "B1"}}},
		Artists:   []models.ArtistLike{{Artist: models.ArtistInfo{ID: "A1"}}},
		Timestamp: "2024-03-01T00:00:00Z",
		Time:      1709251200,
	}

	t.Run("skips rows already in the desired state", func(t *testing.T) {
		service := &tu.MockService{}
		engine := newTestEngine(service)

		entries := []models.LikedEntry{
			// Unchecked and already absent online.
			{LikeOn: false, LikeKey: models.LikeKey{TrackID: "T9"}},
			// Checked and already present online.
			{LikeOn: true, LikeKey: models.LikeKey{TrackID: "T1"}, Timestamp: "2024-01-01T00:00:00Z", Time: 1704067200},
		}

		result, err := engine.Export(ctx, nil, snap, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Set != 0 || result.Unset != 0 {
			t.Errorf("result = %+v, want all zero", result)
		}
		if len(service.Added) != 0 || len(service.Removed) != 0 {
			t.Errorf("no mutations expected, got added=%v removed=%v", service.Added, service.Removed)
		}
		if entries[1].Timestamp != "2024-01-01T00:00:00Z" {
			t.Errorf("no-op row timestamp must stay, got %q", entries[1].Timestamp)
		}
	})

	t.Run("adds checked rows absent online and stamps snapshot time", func(t *testing.T) {
		service := &tu.MockService{}
		engine := newTestEngine(service)

		entries := []models.LikedEntry{
			{LikeOn: true, LikeKey: models.LikeKey{TrackID: "T2"}},
			{LikeOn: true, LikeKey: models.LikeKey{AlbumID: "B2"}},
			{LikeOn: true, LikeKey: models.LikeKey{ArtistID: "A2"}},
		}

		result, err := engine.Export(ctx, nil, snap, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Set != 3 || result.Unset != 0 {
			t.Errorf("result = %+v, want 3 set", result)
		}

		if !reflect.DeepEqual(service.Added[models.LevelTrack], []string{"T2"}) {
			t.Errorf("track adds = %v", service.Added[models.LevelTrack])
		}
		if !reflect.DeepEqual(service.Added[models.LevelAlbum], []string{"B2"}) {
			t.Errorf("album adds = %v", service.Added[models.LevelAlbum])
		}
		if !reflect.DeepEqual(service.Added[models.LevelArtist], []string{"A2"}) {
			t.Errorf("artist adds = %v", service.Added[models.LevelArtist])
		}

		for _, e := range entries {
			if e.Timestamp != snap.Timestamp || e.Time != snap.Time {
				t.Errorf("added row should carry snapshot time, got %+v", e)
			}
		}
	})

	t.Run("removes unchecked rows still online and clears timestamps", func(t *testing.T) {
		service := &tu.MockService{}
		engine := newTestEngine(service)

		entries := []models.LikedEntry{
			{LikeOn: false, LikeKey: models.LikeKey{TrackID: "T1"}, Timestamp: "2024-01-01T00:00:00Z", Time: 1704067200},
			{LikeOn: false, LikeKey: models.LikeKey{AlbumID: "B1"}, Timestamp: "2024-01-01T00:00:00Z", Time: 1704067200},
		}

		result, err := engine.Export(ctx, nil, snap, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Unset != 2 || result.Set != 0 {
			t.Errorf("result = %+v, want 2 unset", result)
		}

		if !reflect.DeepEqual(service.Removed[models.LevelTrack], []string{"T1"}) {
			t.Errorf("track removes = %v", service.Removed[models.LevelTrack])
		}
		if !reflect.DeepEqual(service.Removed[models.LevelAlbum], []string{"B1"}) {
			t.Errorf("album removes = %v", service.Removed[models.LevelAlbum])
		}

		for _, e := range entries {
			if e.Timestamp != "" || e.Time != 0 {
				t.Errorf("removed row timestamp should clear, got %+v", e)
			}
		}
	})

	t.Run("track-level id used even when row carries all three ids", func(t *testing.T) {
		service := &tu.MockService{}
		engine := newTestEngine(service)

		entries := []models.LikedEntry{
			{LikeOn: true, LikeKey: models.LikeKey{ArtistID: "A1", AlbumID: "B1", TrackID: "T5"}},
		}

		if _, err := engine.Export(ctx, nil, snap, entries); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(service.Added[models.LevelTrack], []string{"T5"}) {
			t.Errorf("expected track-level add, got %v", service.Added)
		}
		if len(service.Added[models.LevelAlbum]) != 0 || len(service.Added[models.LevelArtist]) != 0 {
			t.Errorf("coarser levels must not be touched, got %v", service.Added)
		}
	})

	t.Run("rows without ids are skipped", func(t *testing.T) {
		service := &tu.MockService{}
		engine := newTestEngine(service)

		entries := []models.LikedEntry{{LikeOn: true, Artist: "Note"}}

		result, err := engine.Export(ctx, nil, snap, entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Set != 0 || len(service.Added) != 0 {
			t.Errorf("malformed rows must be skipped, got %+v %v", result, service.Added)
		}
	})
}

package tasks

import (
	"testing"

	"github.com/desertthunder/liketab/internal/models"
)

func TestIsRegionalGenre(t *testing.T) {
	tc := []struct {
		name   string
		genres string
		want   bool
	}{
		{name: "russian rock", genres: "russian rock", want: true},
		{name: "rusrap", genres: "rusrap", want: true},
		{name: "phonk", genres: "phonk", want: true},
		{name: "local indie", genres: "Local Indie", want: true},
		{name: "plain rock", genres: "rock", want: false},
		{name: "empty", genres: "", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRegionalGenre(tt.genres); got != tt.want {
				t.Errorf("IsRegionalGenre(%q) = %v, want %v", tt.genres, got, tt.want)
			}
		})
	}
}

func TestIsLatinTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  bool
	}{
		{name: "ascii", title: "Radiohead", want: true},
		{name: "accented latin", title: "Beyoncé", want: true},
		{name: "punctuation", title: "AC/DC & Friends (Live)", want: false},
		{name: "common punctuation", title: "Florence & The Machine", want: true},
		{name: "cyrillic", title: "Кино", want: false},
		{name: "empty fails", title: "", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLatinTitle(tt.title); got != tt.want {
				t.Errorf("IsLatinTitle(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestSortEntries(t *testing.T) {
	track := func(artist, genres, albumID, year, trackID string) models.LikedEntry {
		return models.LikedEntry{
			LikeKey: models.LikeKey{AlbumID: albumID, TrackID: trackID},
			Artist:  artist,
			Genres:  genres,
			Year:    year,
		}
	}

	t.Run("regional genres group first", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("Abroad", "rock", "al1", "2020", "t1"),
			track("Home", "russian rock", "al2", "2020", "t2"),
		}
		SortEntries(entries)
		if entries[0].Artist != "Home" {
			t.Errorf("expected regional entry first, got %q", entries[0].Artist)
		}
	})

	t.Run("non-latin artists sort after latin", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("Кино", "rock", "al1", "1986", "t1"),
			track("Blur", "rock", "al2", "1994", "t2"),
		}
		SortEntries(entries)
		if entries[0].Artist != "Blur" {
			t.Errorf("expected latin artist first, got %q", entries[0].Artist)
		}
	})

	t.Run("artists sort case-insensitively", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("beta", "rock", "al1", "2020", "t1"),
			track("Alpha", "rock", "al2", "2020", "t2"),
		}
		SortEntries(entries)
		if entries[0].Artist != "Alpha" {
			t.Errorf("expected Alpha first, got %q", entries[0].Artist)
		}
	})

	t.Run("artist row leads its albums", func(t *testing.T) {
		entries := []models.LikedEntry{
			{LikeKey: models.LikeKey{ArtistID: "A1", AlbumID: "al1"}, Artist: "Artist", Year: "2019"},
			{LikeKey: models.LikeKey{ArtistID: "A1"}, Artist: "Artist"},
		}
		SortEntries(entries)
		if entries[0].AlbumID != "" {
			t.Errorf("expected album-less artist row first, got %+v", entries[0])
		}
	})

	t.Run("albums order by year ascending", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("Artist", "rock", "al2", "2021", ""),
			track("Artist", "rock", "al1", "2019", ""),
		}
		SortEntries(entries)
		if entries[0].Year != "2019" {
			t.Errorf("expected older album first, got %q", entries[0].Year)
		}
	})

	t.Run("album row leads its tracks", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("Artist", "rock", "al1", "2020", "t1"),
			track("Artist", "rock", "al1", "2020", ""),
		}
		SortEntries(entries)
		if entries[0].TrackID != "" {
			t.Errorf("expected track-less album row first, got %+v", entries[0])
		}
	})

	t.Run("tracks order by id", func(t *testing.T) {
		entries := []models.LikedEntry{
			track("Artist", "rock", "al1", "2020", "t2"),
			track("Artist", "rock", "al1", "2020", "t1"),
		}
		SortEntries(entries)
		if entries[0].TrackID != "t1" {
			t.Errorf("expected t1 first, got %q", entries[0].TrackID)
		}
	})

	t.Run("sort is stable for equal rows", func(t *testing.T) {
		a := track("Artist", "rock", "al1", "2020", "t1")
		a.Track = "first"
		b := track("Artist", "rock", "al1", "2020", "t1")
		b.Track = "second"

		entries := []models.LikedEntry{a, b}
		SortEntries(entries)
		if entries[0].Track != "first" {
			t.Errorf("expected stable order, got %q first", entries[0].Track)
		}
	})
}

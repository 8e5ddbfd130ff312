package tasks

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/liketab/internal/models"
)

// Substrings identifying regional genre labels that group to the top of a
// freshly written table.
var regionalGenreMarkers = []string{"rus", "phonk", "local"}

// nonLatinPattern matches any run of characters outside basic Latin,
// Latin-1 letters and common punctuation found in western artist names.
var nonLatinPattern = regexp.MustCompile(`[^A-Za-z\x{00C0}-\x{00FF}\s\-\(\)\.,&']+`)

// SortEntries orders entries for presentation on a full table write.
//
// The order groups regional-genre entries first, Latin-script artists before
// non-Latin ones, then artist name, with album-less artist rows leading their
// albums by year and track-less album rows leading their tracks. The sort is
// stable, so equal rows keep their absorbed order.
func SortEntries(entries []models.LikedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(&entries[i], &entries[j])
	})
}

func entryLess(a, b *models.LikedEntry) bool {
	ka, kb := entrySortKey(a), entrySortKey(b)
	for n := range ka.ranks {
		if ka.ranks[n] != kb.ranks[n] {
			return ka.ranks[n] < kb.ranks[n]
		}
	}
	if ka.artist != kb.artist {
		return ka.artist < kb.artist
	}
	if ka.albumRank != kb.albumRank {
		return ka.albumRank < kb.albumRank
	}
	if ka.year != kb.year {
		return ka.year < kb.year
	}
	if ka.genre != kb.genre {
		return ka.genre < kb.genre
	}
	if ka.trackRank != kb.trackRank {
		return ka.trackRank < kb.trackRank
	}
	return ka.trackID < kb.trackID
}

type sortKey struct {
	ranks     [2]int // regional genre first, non-Latin artist last
	artist    string
	albumRank int // album-less artist rows before their albums
	year      int
	genre     string
	trackRank int // track-less album rows before their tracks
	trackID   string
}

func entrySortKey(c *models.LikedEntry) sortKey {
	k := sortKey{
		ranks:   [2]int{1, 1},
		artist:  strings.ToLower(c.Artist),
		genre:   strings.ToLower(c.Genre),
		trackID: c.TrackID,
	}
	if IsRegionalGenre(c.Genres) || IsRegionalGenre(c.Genre) {
		k.ranks[0] = 0
	}
	if IsLatinTitle(c.Artist) {
		k.ranks[1] = 0
	}
	if c.AlbumID != "" {
		k.albumRank = 1
	}
	if year, err := strconv.Atoi(c.Year); err == nil {
		k.year = year
	}
	if c.TrackID != "" {
		k.trackRank = 1
	}
	return k
}

// IsRegionalGenre reports whether a genres label carries one of the regional
// markers, case-insensitively.
func IsRegionalGenre(genres string) bool {
	genres = strings.ToLower(genres)
	for _, marker := range regionalGenreMarkers {
		if strings.Contains(genres, marker) {
			return true
		}
	}
	return false
}

// IsLatinTitle reports whether a title is non-empty and free of non-Latin
// script runs.
func IsLatinTitle(title string) bool {
	if title == "" {
		return false
	}
	return !nonLatinPattern.MatchString(title)
}

package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/liketab/internal/models"
	"github.com/desertthunder/liketab/internal/shared"
)

// Import absorbs online drift into the table entries.
//
// Three steps, in order: likes that disappeared online are switched off,
// online likes strictly newer than the table's watermark re-affirm existing
// rows or append new ones, and entries missing display metadata are enriched
// through batched lookups. Rows are never deleted and non-empty descriptive
// fields are never overwritten.
func (e *LikeEngine) Import(ctx context.Context, progress chan<- ProgressUpdate, snap *models.OnlineSnapshot, entries []models.LikedEntry) ([]models.LikedEntry, *ImportResult, error) {
	result := &ImportResult{}

	result.Unset = unsetStaleLikes(snap, entries)
	e.sendProgress(progress, unsetStaleUpdate(result.Unset))

	watermark := likeWatermark(entries)
	before := len(entries)
	entries, set := absorbOnlineLikes(snap, entries, watermark)
	result.Set = set
	result.New = len(entries) - before
	e.sendProgress(progress, absorbLikesUpdate(result.Set, result.New))
	e.logger.Debug("absorbed online likes",
		"watermark", watermark,
		"unset", result.Unset,
		"set", result.Set,
		"new", result.New)

	if err := e.enrichEntries(ctx, progress, snap, entries); err != nil {
		return entries, result, err
	}
	return entries, result, nil
}

// unsetStaleLikes switches off table likes that no longer exist online: the
// row keeps its ids and metadata but the checkbox clears along with the
// timestamp. Rows without any id cannot be checked against the snapshot and
// are left alone.
func unsetStaleLikes(snap *models.OnlineSnapshot, entries []models.LikedEntry) int {
	unset := 0
	for i := range entries {
		c := &entries[i]
		if !c.LikeOn || c.Timestamp == "" {
			continue
		}
		if c.Granularity() == models.GranularityNone {
			continue
		}
		if snap.Contains(c.LikeKey) {
			continue
		}
		c.LikeOn = false
		c.Timestamp = ""
		c.Time = 0
		unset++
	}
	return unset
}

// likeWatermark returns the newest like time present in the table, in unix
// seconds. Online likes at or below the watermark were seen by a previous
// pass and are skipped during absorption.
func likeWatermark(entries []models.LikedEntry) int64 {
	var max int64
	for i := range entries {
		if entries[i].Time > max {
			max = entries[i].Time
		}
	}
	return max
}

// absorbOnlineLikes walks the snapshot collections artists first, then albums,
// then tracks, so appended rows of a first run group coarse to fine. Each
// online like strictly newer than the watermark either re-affirms the matching
// row or appends a new one. A like whose key does not resolve at its own
// collection's granularity is malformed and skipped, so it can never land as a
// coarser row. Returns the grown slice and the re-affirm count.
func absorbOnlineLikes(snap *models.OnlineSnapshot, entries []models.LikedEntry, watermark int64) ([]models.LikedEntry, int) {
	set := 0
	absorb := func(like models.OnlineLike, level models.Granularity) {
		key := like.Key()
		if key.Granularity() != level {
			return
		}
		at, err := shared.IsoToUnix(like.LikedAt())
		if err != nil || at <= watermark {
			return
		}
		if i := findEntry(entries, key); i >= 0 {
			entries[i].LikeOn = true
			entries[i].Timestamp = like.LikedAt()
			entries[i].Time = at
			set++
			return
		}
		entries = append(entries, models.LikedEntry{
			LikeOn:    true,
			LikeKey:   key,
			Timestamp: like.LikedAt(),
			Time:      at,
		})
	}

	for _, like := range snap.Artists {
		absorb(like, models.GranularityArtist)
	}
	for _, like := range snap.Albums {
		absorb(like, models.GranularityAlbum)
	}
	for _, like := range snap.Tracks {
		absorb(like, models.GranularityTrack)
	}
	return entries, set
}

// findEntry returns the index of the entry whose key equals the given key at
// its granularity, or -1. A track-level key matches on track id alone; album
// and artist level keys only match rows without finer ids.
func findEntry(entries []models.LikedEntry, key models.LikeKey) int {
	for i := range entries {
		if entries[i].LikeKey.Equal(key) {
			return i
		}
	}
	return -1
}

// enrichEntries backfills display metadata for entries that are missing it.
//
// Track metadata is fetched for every track row missing a track or artist
// display value; album and artist metadata resolve from the snapshot's nested
// like payloads and the albums carried by fetched tracks first, with batched
// lookups only for the ids left over. Only empty fields are filled, and ids
// already on a row are never replaced.
func (e *LikeEngine) enrichEntries(ctx context.Context, progress chan<- ProgressUpdate, snap *models.OnlineSnapshot, entries []models.LikedEntry) error {
	trackInfo := make(map[string]models.TrackInfo)
	trackIDs := collectIDs(entries, func(c *models.LikedEntry) string {
		if c.TrackID != "" && (c.Track == "" || c.Artist == "") {
			return c.TrackID
		}
		return ""
	}, trackInfo)
	if len(trackIDs) > 0 {
		e.sendProgress(progress, fetchMetadataUpdate(1, 3, "tracks", len(trackIDs)))
		tracks, err := e.service.FetchTracks(ctx, trackIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch track metadata: %w", err)
		}
		for _, t := range tracks {
			trackInfo[t.ID] = t
		}
	}

	// Track metadata pins down the ids the coarser lookups key on. Ids
	// already present on a row are part of its identity and stay as read.
	for i := range entries {
		c := &entries[i]
		t, ok := trackInfo[c.TrackID]
		if !ok {
			continue
		}
		if c.AlbumID == "" && len(t.Albums) > 0 {
			c.AlbumID = t.Albums[0].ID
		}
		if c.ArtistID == "" && len(t.Artists) > 0 {
			c.ArtistID = t.Artists[0].ID
		}
	}

	albumInfo := make(map[string]models.AlbumInfo, len(snap.Albums))
	for _, like := range snap.Albums {
		if like.Album.ID != "" {
			albumInfo[like.Album.ID] = like.Album
		}
	}
	// Albums nested in track payloads count as resolved and skip the batch.
	for _, t := range trackInfo {
		if len(t.Albums) == 0 || t.Albums[0].ID == "" {
			continue
		}
		if _, ok := albumInfo[t.Albums[0].ID]; !ok {
			albumInfo[t.Albums[0].ID] = t.Albums[0]
		}
	}
	albumIDs := collectIDs(entries, func(c *models.LikedEntry) string {
		if c.AlbumID != "" && entryNeedsAlbum(c) {
			return c.AlbumID
		}
		return ""
	}, albumInfo)
	if len(albumIDs) > 0 {
		e.sendProgress(progress, fetchMetadataUpdate(2, 3, "albums", len(albumIDs)))
		albums, err := e.service.FetchAlbums(ctx, albumIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch album metadata: %w", err)
		}
		for _, a := range albums {
			albumInfo[a.ID] = a
		}
	}

	artistInfo := make(map[string]models.ArtistInfo, len(snap.Artists))
	for _, like := range snap.Artists {
		if like.Artist.ID != "" {
			artistInfo[like.Artist.ID] = like.Artist
		}
	}
	artistIDs := collectIDs(entries, func(c *models.LikedEntry) string {
		if c.Artist != "" && c.Genres != "" {
			return ""
		}
		if a, ok := albumInfo[c.AlbumID]; ok && len(a.Artists) > 0 {
			return a.Artists[0].ID
		}
		return c.ArtistID
	}, artistInfo)
	if len(artistIDs) > 0 {
		e.sendProgress(progress, fetchMetadataUpdate(3, 3, "artists", len(artistIDs)))
		artists, err := e.service.FetchArtists(ctx, artistIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch artist metadata: %w", err)
		}
		for _, a := range artists {
			artistInfo[a.ID] = a
		}
	}

	for i := range entries {
		backfillEntry(&entries[i], trackInfo, albumInfo, artistInfo)
	}
	return nil
}

// collectIDs gathers deduplicated non-empty ids picked per entry, skipping
// ids already resolved in the given map.
func collectIDs[T any](entries []models.LikedEntry, pick func(*models.LikedEntry) string, resolved map[string]T) []string {
	seen := make(map[string]bool)
	var ids []string
	for i := range entries {
		id := pick(&entries[i])
		if id == "" || seen[id] {
			continue
		}
		if _, ok := resolved[id]; ok {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func entryNeedsAlbum(c *models.LikedEntry) bool {
	return c.Album == "" || c.Artist == "" || c.Genres == "" || c.Genre == "" || c.Year == ""
}

// backfillEntry fills the entry's empty display fields from the resolved
// metadata. User-edited values stay: a non-empty field is never replaced.
func backfillEntry(c *models.LikedEntry, trackInfo map[string]models.TrackInfo, albumInfo map[string]models.AlbumInfo, artistInfo map[string]models.ArtistInfo) {
	track, hasTrack := trackInfo[c.TrackID]
	album, hasAlbum := albumInfo[c.AlbumID]

	if hasAlbum && len(album.Artists) > 0 {
		if c.ArtistID == "" {
			c.ArtistID = album.Artists[0].ID
		}
		if len(album.Artists) > 1 && c.Artist == "" {
			c.Artist = album.ArtistNames()
		}
	}
	if artist, ok := artistInfo[c.ArtistID]; ok {
		if c.Artist == "" {
			c.Artist = artist.Name
		}
		if c.Genres == "" {
			c.Genres = strings.Join(artist.Genres, ", ")
		}
	}
	if hasAlbum && c.Album == "" {
		if c.Year == "" {
			c.Year = albumReleaseYear(album)
		}
		if c.Genre == "" {
			c.Genre = album.Genre
		}
		c.Album = album.DisplayTitle()
	}
	if hasTrack && c.Track == "" {
		c.Track = track.DisplayTitle()
	}
}

// albumReleaseYear picks the first usable year: the original release year,
// then the catalog year, then the year component of the release date.
func albumReleaseYear(album models.AlbumInfo) string {
	if album.OriginalReleaseYear > 0 {
		return strconv.Itoa(album.OriginalReleaseYear)
	}
	if album.Year > 0 {
		return strconv.Itoa(album.Year)
	}
	if album.ReleaseDate != "" {
		if year, err := shared.IsoToYear(album.ReleaseDate); err == nil {
			return strconv.Itoa(year)
		}
	}
	return ""
}

package models

import "strings"

// Granularity is the entity level a row or online item refers to.
type Granularity int

const (
	GranularityNone Granularity = iota
	GranularityArtist
	GranularityAlbum
	GranularityTrack
)

func (g Granularity) String() string {
	switch g {
	case GranularityArtist:
		return "artist"
	case GranularityAlbum:
		return "album"
	case GranularityTrack:
		return "track"
	default:
		return "none"
	}
}

// LikeLevel names an entity type for batched like mutations and metadata
// lookups against the remote service.
type LikeLevel string

const (
	LevelTrack  LikeLevel = "track"
	LevelAlbum  LikeLevel = "album"
	LevelArtist LikeLevel = "artist"
)

// LikeKey identifies an entity at exactly one granularity.
//
// A track-level key may carry incidental artist/album ids for display; they do
// not participate in identity. Identity for a track-level key is by TrackID
// alone, album-level by AlbumID with an empty TrackID, artist-level by
// ArtistID with empty AlbumID and TrackID.
type LikeKey struct {
	ArtistID string `json:"artist_id"`
	AlbumID  string `json:"album_id"`
	TrackID  string `json:"track_id"`
}

// Granularity returns the highest-priority non-empty id level
// (track > album > artist). GranularityNone means a malformed key with all
// ids empty; such keys must be excluded from matching.
func (k LikeKey) Granularity() Granularity {
	switch {
	case k.TrackID != "":
		return GranularityTrack
	case k.AlbumID != "":
		return GranularityAlbum
	case k.ArtistID != "":
		return GranularityArtist
	default:
		return GranularityNone
	}
}

// Equal reports whether two keys resolve to the same granularity and the id
// at that granularity matches exactly. Keys with GranularityNone never equal
// anything, including each other.
func (k LikeKey) Equal(other LikeKey) bool {
	g := k.Granularity()
	if g == GranularityNone || g != other.Granularity() {
		return false
	}
	switch g {
	case GranularityTrack:
		return k.TrackID == other.TrackID
	case GranularityAlbum:
		return k.AlbumID == other.AlbumID
	default:
		return k.ArtistID == other.ArtistID
	}
}

// SameRow reports whether all three ids match exactly. This is the row
// identity used by the positional update protocol, where rows retain their
// incidental ids even when toggled off.
func (k LikeKey) SameRow(other LikeKey) bool {
	return k.ArtistID == other.ArtistID && k.AlbumID == other.AlbumID && k.TrackID == other.TrackID
}

// LikedEntry is one table row: a like decision plus descriptive metadata.
//
// An entry is never deleted. When a like disappears online the entry keeps its
// ids and metadata but LikeOn becomes false and the timestamp is cleared, so
// the row persists as history the user can re-check later.
type LikedEntry struct {
	LikeOn bool `json:"like_on"`
	LikeKey

	// Timestamp is the service-reported (or sync-approximated) like time as
	// an ISO-8601 string; empty when the like is confirmed unset.
	Timestamp string `json:"timestamp"`

	// Time is Timestamp as unix seconds. Derived on read, used only for
	// comparisons; never the persisted canonical value.
	Time int64 `json:"-"`

	Artist string `json:"artist"`
	Genres string `json:"genres"`
	Album  string `json:"album"`
	Track  string `json:"track"`
	Year   string `json:"year"`
	Genre  string `json:"genre"`
}

// OnlineLike is the shared identity and like-time accessor over the three
// tagged online like types.
type OnlineLike interface {
	Key() LikeKey
	LikedAt() string
}

// TrackLike is a liked track as reported by the remote service.
type TrackLike struct {
	ID        string `json:"id"`
	AlbumID   string `json:"album_id"`
	Timestamp string `json:"timestamp"`
}

func (t TrackLike) Key() LikeKey    { return LikeKey{TrackID: t.ID, AlbumID: t.AlbumID} }
func (t TrackLike) LikedAt() string { return t.Timestamp }

// AlbumLike is a liked album with its nested album metadata.
type AlbumLike struct {
	Timestamp string    `json:"timestamp"`
	Album     AlbumInfo `json:"album"`
}

func (a AlbumLike) Key() LikeKey {
	k := LikeKey{AlbumID: a.Album.ID}
	if len(a.Album.Artists) > 0 {
		k.ArtistID = a.Album.Artists[0].ID
	}
	return k
}
func (a AlbumLike) LikedAt() string { return a.Timestamp }

// ArtistLike is a liked artist with its nested artist metadata.
type ArtistLike struct {
	Timestamp string     `json:"timestamp"`
	Artist    ArtistInfo `json:"artist"`
}

func (a ArtistLike) Key() LikeKey    { return LikeKey{ArtistID: a.Artist.ID} }
func (a ArtistLike) LikedAt() string { return a.Timestamp }

// OnlineSnapshot holds the remote service's liked collections as of one
// capture. Immutable once built; every comparison in a reconciliation pass
// reads from the same snapshot.
type OnlineSnapshot struct {
	Tracks  []TrackLike  `json:"tracks"`
	Albums  []AlbumLike  `json:"albums"`
	Artists []ArtistLike `json:"artists"`

	// Capture time of the snapshot itself, used to approximate like times
	// for likes pushed during the export path.
	Timestamp string `json:"timestamp"`
	Time      int64  `json:"time"`
}

// Contains performs the granularity-aware membership check: a track-level key
// is looked up in the track list, an album-level key in the album list and an
// artist-level key in the artist list. Malformed keys are never members.
func (s *OnlineSnapshot) Contains(key LikeKey) bool {
	switch key.Granularity() {
	case GranularityTrack:
		for _, t := range s.Tracks {
			if t.ID == key.TrackID {
				return true
			}
		}
	case GranularityAlbum:
		for _, a := range s.Albums {
			if a.Album.ID == key.AlbumID {
				return true
			}
		}
	case GranularityArtist:
		for _, a := range s.Artists {
			if a.Artist.ID == key.ArtistID {
				return true
			}
		}
	}
	return false
}

// TrackInfo is track metadata from a batched lookup.
type TrackInfo struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Version string       `json:"version"`
	Albums  []AlbumInfo  `json:"albums"`
	Artists []ArtistInfo `json:"artists"`
}

// DisplayTitle returns the track title with a parenthesized version suffix
// when the source provides one, e.g. "Title (Remix)".
func (t TrackInfo) DisplayTitle() string {
	return titleWithVersion(t.Title, t.Version)
}

// AlbumInfo is album metadata from a batched lookup or a nested album payload.
type AlbumInfo struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Version             string       `json:"version"`
	Genre               string       `json:"genre"`
	Year                int          `json:"year"`
	OriginalReleaseYear int          `json:"original_release_year"`
	ReleaseDate         string       `json:"release_date"`
	Artists             []ArtistInfo `json:"artists"`
}

// DisplayTitle returns the album title with a parenthesized version suffix
// when the source provides one.
func (a AlbumInfo) DisplayTitle() string {
	return titleWithVersion(a.Title, a.Version)
}

// ArtistNames joins all artist names with ", ".
func (a AlbumInfo) ArtistNames() string {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// ArtistInfo is artist metadata from a batched lookup or a nested payload.
type ArtistInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

func titleWithVersion(title, version string) string {
	if title == "" {
		return ""
	}
	if version == "" {
		return title
	}
	return title + " (" + version + ")"
}

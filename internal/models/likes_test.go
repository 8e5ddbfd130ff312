package models

import "testing"

func TestLikeKeyGranularity(t *testing.T) {
	tc := []struct {
		name string
		key  LikeKey
		want Granularity
	}{
		{
			name: "track wins over album and artist",
			key:  LikeKey{ArtistID: "1", AlbumID: "2", TrackID: "3"},
			want: GranularityTrack,
		},
		{
			name: "album wins over artist",
			key:  LikeKey{ArtistID: "1", AlbumID: "2"},
			want: GranularityAlbum,
		},
		{
			name: "artist only",
			key:  LikeKey{ArtistID: "1"},
			want: GranularityArtist,
		},
		{
			name: "all empty is none",
			key:  LikeKey{},
			want: GranularityNone,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Granularity(); got != tt.want {
				t.Errorf("Granularity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLikeKeyEqual(t *testing.T) {
	tc := []struct {
		name string
		a, b LikeKey
		want bool
	}{
		{
			name: "track keys match on track id alone",
			a:    LikeKey{ArtistID: "1", AlbumID: "2", TrackID: "3"},
			b:    LikeKey{TrackID: "3"},
			want: true,
		},
		{
			name: "track keys differ",
			a:    LikeKey{TrackID: "3"},
			b:    LikeKey{TrackID: "4"},
			want: false,
		},
		{
			name: "album key never matches track key with same album id",
			a:    LikeKey{AlbumID: "2"},
			b:    LikeKey{AlbumID: "2", TrackID: "3"},
			want: false,
		},
		{
			name: "artist key never matches album key",
			a:    LikeKey{ArtistID: "1"},
			b:    LikeKey{ArtistID: "1", AlbumID: "2"},
			want: false,
		},
		{
			name: "album keys match regardless of artist id",
			a:    LikeKey{ArtistID: "1", AlbumID: "2"},
			b:    LikeKey{ArtistID: "9", AlbumID: "2"},
			want: true,
		},
		{
			name: "malformed keys never equal anything",
			a:    LikeKey{},
			b:    LikeKey{},
			want: false,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLikeKeySameRow(t *testing.T) {
	a := LikeKey{ArtistID: "1", AlbumID: "2", TrackID: "3"}

	if !a.SameRow(LikeKey{ArtistID: "1", AlbumID: "2", TrackID: "3"}) {
		t.Error("expected identical triples to be the same row")
	}
	if a.SameRow(LikeKey{ArtistID: "9", AlbumID: "2", TrackID: "3"}) {
		t.Error("expected differing artist id to break row identity")
	}
	if !(LikeKey{}).SameRow(LikeKey{}) {
		t.Error("expected two empty triples to be the same row")
	}
}

func TestSnapshotContains(t *testing.T) {
	snap := &OnlineSnapshot{
		Tracks:  []TrackLike{{ID: "t1", AlbumID: "al1"}},
		Albums:  []AlbumLike{{Album: AlbumInfo{ID: "al2"}}},
		Artists: []ArtistLike{{Artist: ArtistInfo{ID: "ar1"}}},
	}

	tc := []struct {
		name string
		key  LikeKey
		want bool
	}{
		{name: "track present", key: LikeKey{TrackID: "t1"}, want: true},
		{name: "track absent", key: LikeKey{TrackID: "t2"}, want: false},
		{name: "album present", key: LikeKey{AlbumID: "al2"}, want: true},
		{
			name: "album id only checked in album list",
			key:  LikeKey{AlbumID: "al1"},
			want: false,
		},
		{name: "artist present", key: LikeKey{ArtistID: "ar1"}, want: true},
		{name: "malformed key never a member", key: LikeKey{}, want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := snap.Contains(tt.key); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	tc := []struct {
		name    string
		title   string
		version string
		want    string
	}{
		{name: "plain title", title: "Song", version: "", want: "Song"},
		{name: "version suffix", title: "Song", version: "Remix", want: "Song (Remix)"},
		{name: "empty title drops version", title: "", version: "Remix", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			track := TrackInfo{Title: tt.title, Version: tt.version}
			if got := track.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlbumArtistNames(t *testing.T) {
	album := AlbumInfo{Artists: []ArtistInfo{{Name: "A"}, {Name: "B"}}}
	if got := album.ArtistNames(); got != "A, B" {
		t.Errorf("ArtistNames() = %q, want %q", got, "A, B")
	}

	empty := AlbumInfo{}
	if got := empty.ArtistNames(); got != "" {
		t.Errorf("ArtistNames() = %q, want empty", got)
	}
}

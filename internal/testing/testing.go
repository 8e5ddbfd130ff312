// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/liketab/internal/models"
)

// MockService is a configurable test double for [services.MusicService].
//
// The liked collections and metadata lookups serve the configured fields;
// mutation calls are recorded for assertions. The zero value behaves as an
// account with no likes.
type MockService struct {
	Tracks  []models.TrackLike
	Albums  []models.AlbumLike
	Artists []models.ArtistLike

	TrackInfo  []models.TrackInfo
	AlbumInfo  []models.AlbumInfo
	ArtistInfo []models.ArtistInfo

	AuthErr  error
	LikesErr error
	FetchErr error

	Added   map[models.LikeLevel][]string
	Removed map[models.LikeLevel][]string

	FetchedTracks  [][]string
	FetchedAlbums  [][]string
	FetchedArtists [][]string
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.AuthErr
}

func (m *MockService) LikedTracks(ctx context.Context) ([]models.TrackLike, error) {
	return m.Tracks, m.LikesErr
}

func (m *MockService) LikedAlbums(ctx context.Context) ([]models.AlbumLike, error) {
	return m.Albums, m.LikesErr
}

func (m *MockService) LikedArtists(ctx context.Context) ([]models.ArtistLike, error) {
	return m.Artists, m.LikesErr
}

func (m *MockService) AddLikes(ctx context.Context, level models.LikeLevel, ids []string) error {
	if m.LikesErr != nil {
		return m.LikesErr
	}
	if m.Added == nil {
		m.Added = map[models.LikeLevel][]string{}
	}
	m.Added[level] = append(m.Added[level], ids...)
	return nil
}

func (m *MockService) RemoveLikes(ctx context.Context, level models.LikeLevel, ids []string) error {
	if m.LikesErr != nil {
		return m.LikesErr
	}
	if m.Removed == nil {
		m.Removed = map[models.LikeLevel][]string{}
	}
	m.Removed[level] = append(m.Removed[level], ids...)
	return nil
}

func (m *MockService) FetchTracks(ctx context.Context, ids []string) ([]models.TrackInfo, error) {
	m.FetchedTracks = append(m.FetchedTracks, ids)
	return m.TrackInfo, m.FetchErr
}

func (m *MockService) FetchAlbums(ctx context.Context, ids []string) ([]models.AlbumInfo, error) {
	m.FetchedAlbums = append(m.FetchedAlbums, ids)
	return m.AlbumInfo, m.FetchErr
}

func (m *MockService) FetchArtists(ctx context.Context, ids []string) ([]models.ArtistInfo, error) {
	m.FetchedArtists = append(m.FetchedArtists, ids)
	return m.ArtistInfo, m.FetchErr
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper serves a fixed sequence of responses, one per request,
// repeating the last one when the sequence runs out.
type SequenceRoundTripper struct {
	responses []*http.Response
	calls     int
}

func NewSequenceRoundTripper(responses ...*http.Response) *SequenceRoundTripper {
	return &SequenceRoundTripper{responses: responses}
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	if len(s.responses) == 0 {
		return nil, errors.New("no responses configured")
	}
	i := s.calls
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	s.calls++
	return s.responses[i], nil
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

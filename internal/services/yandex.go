// Yandex Music API implementation of [MusicService]
//
// Response shapes follow the unofficial API behind the official clients,
// https://api.music.yandex.net. Every payload arrives wrapped in a
// {"result": ...} envelope and ids arrive as either strings or numbers
// depending on endpoint, so wire types normalize both.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/liketab/internal/models"
	"github.com/desertthunder/liketab/internal/shared"
	"golang.org/x/time/rate"
)

const defaultYandexBaseURL = "https://api.music.yandex.net"

// flexID decodes a JSON id that may be a string or a number into a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type yandexArtist struct {
	ID     flexID   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type yandexAlbum struct {
	ID                  flexID         `json:"id"`
	Title               string         `json:"title"`
	Version             string         `json:"version"`
	Genre               string         `json:"genre"`
	Year                int            `json:"year"`
	OriginalReleaseYear int            `json:"originalReleaseYear"`
	ReleaseDate         string         `json:"releaseDate"`
	Artists             []yandexArtist `json:"artists"`
}

type yandexTrack struct {
	ID      flexID         `json:"id"`
	Title   string         `json:"title"`
	Version string         `json:"version"`
	Albums  []yandexAlbum  `json:"albums"`
	Artists []yandexArtist `json:"artists"`
}

type yandexTrackLike struct {
	ID        flexID `json:"id"`
	AlbumID   flexID `json:"albumId"`
	Timestamp string `json:"timestamp"`
}

type yandexAlbumLike struct {
	Timestamp string      `json:"timestamp"`
	Album     yandexAlbum `json:"album"`
}

type yandexArtistLike struct {
	Timestamp string       `json:"timestamp"`
	Artist    yandexArtist `json:"artist"`
}

type yandexAccount struct {
	UID   flexID `json:"uid"`
	Login string `json:"login"`
}

// YandexService implements [MusicService] against the Yandex Music API.
//
// Requests authenticate with a static OAuth token header and are paced with a
// [rate.Limiter] so batch-heavy runs stay under the API's informal limits.
type YandexService struct {
	baseURL    string
	token      string
	language   string
	uid        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// YandexOpts contains configuration for creating a YandexService.
type YandexOpts struct {
	BaseURL    string
	Token      string
	Language   string
	RateLimit  float64
	HTTPClient *http.Client
}

// NewYandexService creates a new Yandex Music service instance.
func NewYandexService(opts YandexOpts) *YandexService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYandexBaseURL
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &YandexService{
		baseURL:    opts.BaseURL,
		token:      opts.Token,
		language:   opts.Language,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Name returns the service name.
func (y *YandexService) Name() string {
	return "Yandex Music"
}

// Authenticate verifies the OAuth token by fetching the account status and
// stores the account uid used by all per-user endpoints.
//
// Accepts an optional credentials["token"] override.
func (y *YandexService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if token, ok := credentials["token"]; ok && token != "" {
		y.token = token
	}
	if y.token == "" {
		return fmt.Errorf("%w: missing token", shared.ErrMissingCredentials)
	}

	var status struct {
		Account yandexAccount `json:"account"`
	}
	if err := y.doRequest(ctx, http.MethodGet, "/account/status", nil, &status); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if status.Account.UID == "" {
		return fmt.Errorf("%w: token has no account", shared.ErrNotAuthenticated)
	}

	y.uid = string(status.Account.UID)
	return nil
}

// UID returns the authenticated account id, empty before Authenticate.
func (y *YandexService) UID() string {
	return y.uid
}

// doRequest performs a rate-limited request and decodes the result envelope.
func (y *YandexService) doRequest(ctx context.Context, method, endpoint string, form url.Values, result any) error {
	if y.token == "" {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	apiURL := y.baseURL + endpoint

	var req *http.Request
	var err error

	if form != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "OAuth "+y.token)
	req.Header.Set("Accept-Language", y.language)

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, endpoint, resp.StatusCode)
	}

	if result != nil {
		envelope := struct {
			Result any `json:"result"`
		}{Result: result}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (y *YandexService) userPath(suffix string) (string, error) {
	if y.uid == "" {
		return "", fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return fmt.Sprintf("/users/%s%s", y.uid, suffix), nil
}

// LikedTracks retrieves the complete liked tracks library.
func (y *YandexService) LikedTracks(ctx context.Context) ([]models.TrackLike, error) {
	endpoint, err := y.userPath("/likes/tracks")
	if err != nil {
		return nil, err
	}

	var result struct {
		Library struct {
			Tracks []yandexTrackLike `json:"tracks"`
		} `json:"library"`
	}
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	likes := make([]models.TrackLike, 0, len(result.Library.Tracks))
	for _, t := range result.Library.Tracks {
		likes = append(likes, models.TrackLike{
			ID:        string(t.ID),
			AlbumID:   string(t.AlbumID),
			Timestamp: t.Timestamp,
		})
	}
	return likes, nil
}

// LikedAlbums retrieves the complete liked albums library with album payloads.
func (y *YandexService) LikedAlbums(ctx context.Context) ([]models.AlbumLike, error) {
	endpoint, err := y.userPath("/likes/albums?rich=true")
	if err != nil {
		return nil, err
	}

	var result []yandexAlbumLike
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	likes := make([]models.AlbumLike, 0, len(result))
	for _, a := range result {
		likes = append(likes, models.AlbumLike{
			Timestamp: a.Timestamp,
			Album:     a.Album.toModel(),
		})
	}
	return likes, nil
}

// LikedArtists retrieves the complete liked artists library with timestamps.
func (y *YandexService) LikedArtists(ctx context.Context) ([]models.ArtistLike, error) {
	endpoint, err := y.userPath("/likes/artists?with-timestamps=true")
	if err != nil {
		return nil, err
	}

	var result []yandexArtistLike
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	likes := make([]models.ArtistLike, 0, len(result))
	for _, a := range result {
		likes = append(likes, models.ArtistLike{
			Timestamp: a.Timestamp,
			Artist:    a.Artist.toModel(),
		})
	}
	return likes, nil
}

// AddLikes marks the given ids liked at the given level in one batched call.
func (y *YandexService) AddLikes(ctx context.Context, level models.LikeLevel, ids []string) error {
	return y.mutateLikes(ctx, level, ids, "add-multiple")
}

// RemoveLikes removes likes for the given ids at the given level in one batched call.
func (y *YandexService) RemoveLikes(ctx context.Context, level models.LikeLevel, ids []string) error {
	return y.mutateLikes(ctx, level, ids, "remove")
}

func (y *YandexService) mutateLikes(ctx context.Context, level models.LikeLevel, ids []string, action string) error {
	if len(ids) == 0 {
		return nil
	}

	endpoint, err := y.userPath(fmt.Sprintf("/likes/%ss/%s", level, action))
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set(fmt.Sprintf("%s-ids", level), strings.Join(ids, ","))

	return y.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

// FetchTracks performs a batched track metadata lookup.
func (y *YandexService) FetchTracks(ctx context.Context, ids []string) ([]models.TrackInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("track-ids", strings.Join(ids, ","))
	form.Set("with-positions", "false")

	var result []yandexTrack
	if err := y.doRequest(ctx, http.MethodPost, "/tracks", form, &result); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackInfo, 0, len(result))
	for _, t := range result {
		tracks = append(tracks, t.toModel())
	}
	return tracks, nil
}

// FetchAlbums performs a batched album metadata lookup.
func (y *YandexService) FetchAlbums(ctx context.Context, ids []string) ([]models.AlbumInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("album-ids", strings.Join(ids, ","))

	var result []yandexAlbum
	if err := y.doRequest(ctx, http.MethodPost, "/albums", form, &result); err != nil {
		return nil, err
	}

	albums := make([]models.AlbumInfo, 0, len(result))
	for _, a := range result {
		albums = append(albums, a.toModel())
	}
	return albums, nil
}

// FetchArtists performs a batched artist metadata lookup.
func (y *YandexService) FetchArtists(ctx context.Context, ids []string) ([]models.ArtistInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("artist-ids", strings.Join(ids, ","))

	var result []yandexArtist
	if err := y.doRequest(ctx, http.MethodPost, "/artists", form, &result); err != nil {
		return nil, err
	}

	artists := make([]models.ArtistInfo, 0, len(result))
	for _, a := range result {
		artists = append(artists, a.toModel())
	}
	return artists, nil
}

func (a yandexArtist) toModel() models.ArtistInfo {
	return models.ArtistInfo{
		ID:     string(a.ID),
		Name:   a.Name,
		Genres: a.Genres,
	}
}

func (a yandexAlbum) toModel() models.AlbumInfo {
	artists := make([]models.ArtistInfo, 0, len(a.Artists))
	for _, artist := range a.Artists {
		artists = append(artists, artist.toModel())
	}
	return models.AlbumInfo{
		ID:                  string(a.ID),
		Title:               a.Title,
		Version:             a.Version,
		Genre:               a.Genre,
		Year:                a.Year,
		OriginalReleaseYear: a.OriginalReleaseYear,
		ReleaseDate:         a.ReleaseDate,
		Artists:             artists,
	}
}

func (t yandexTrack) toModel() models.TrackInfo {
	albums := make([]models.AlbumInfo, 0, len(t.Albums))
	for _, album := range t.Albums {
		albums = append(albums, album.toModel())
	}
	artists := make([]models.ArtistInfo, 0, len(t.Artists))
	for _, artist := range t.Artists {
		artists = append(artists, artist.toModel())
	}
	return models.TrackInfo{
		ID:      string(t.ID),
		Title:   t.Title,
		Version: t.Version,
		Albums:  albums,
		Artists: artists,
	}
}

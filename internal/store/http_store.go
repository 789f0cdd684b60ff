package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reelwatch/release-notifier/internal/domain"
)

// Field names used in the tabular service's collections.
const (
	fieldMovieID     = "Movie ID"
	fieldTitle       = "Title"
	fieldReleaseDate = "Release Date"
	fieldPosterPath  = "Poster Path"
	fieldUser        = "User"
	fieldFollowType  = "Follow Type"
	fieldEmail       = "Email"
	fieldName        = "Name"
	fieldOverview    = "Overview"
)

// HTTPStore talks to the tabular data service over its REST API.
// Records arrive as {id, fields} envelopes; fields are loosely typed, so
// decoding goes through map lookups rather than rigid structs.
// The base URL is injected from config so tests can point to a local mock.
type HTTPStore struct {
	baseURL          string
	apiKey           string
	followCollection string
	userCollection   string
	movieCollection  string
	httpClient       *http.Client
}

func NewHTTPStore(baseURL, apiKey, followCollection, userCollection, movieCollection string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		baseURL:          baseURL,
		apiKey:           apiKey,
		followCollection: followCollection,
		userCollection:   userCollection,
		movieCollection:  movieCollection,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// record is the service's wire envelope for a single row.
type record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type recordList struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

func (s *HTTPStore) ListFollows(ctx context.Context, predicate string) ([]domain.FollowRecord, error) {
	q := url.Values{}
	q.Set("filterByFormula", predicate)

	var list recordList
	if err := s.get(ctx, s.followCollection, "", q, &list); err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	follows := make([]domain.FollowRecord, 0, len(list.Records))
	for _, rec := range list.Records {
		follows = append(follows, followFromRecord(rec))
	}
	return follows, nil
}

func (s *HTTPStore) GetUser(ctx context.Context, id domain.UserID) (*User, error) {
	var rec record
	if err := s.get(ctx, s.userCollection, string(id), nil, &rec); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &User{
		ID:    domain.UserID(rec.ID),
		Email: stringField(rec.Fields, fieldEmail),
		Name:  stringField(rec.Fields, fieldName),
	}, nil
}

func (s *HTTPStore) CreateFollow(ctx context.Context, req domain.FollowRequest) (*domain.FollowRecord, error) {
	fields := map[string]any{
		fieldMovieID: req.MovieID,
		fieldTitle:   req.Title,
		fieldUser:    []string{string(req.UserID)},
	}
	if req.ReleaseDate != "" {
		fields[fieldReleaseDate] = req.ReleaseDate
	}
	if req.PosterPath != "" {
		fields[fieldPosterPath] = req.PosterPath
	}
	if req.FollowType != "" {
		fields[fieldFollowType] = req.FollowType
	}

	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("marshal follow: %w", err)
	}

	httpReq, err := s.newRequest(ctx, http.MethodPost, s.collectionURL(s.followCollection, "", nil), body)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := s.do(httpReq, http.StatusOK, &rec); err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}
	follow := followFromRecord(rec)
	return &follow, nil
}

func (s *HTTPStore) DeleteFollow(ctx context.Context, movieID string, userID domain.UserID, followType string) error {
	// The service deletes by record ID, so resolve the (movie, user) pair
	// to its record first.
	predicate := fmt.Sprintf("AND({%s} = '%s', {%s} = '%s')", fieldMovieID, movieID, fieldUser, userID)
	if followType != "" {
		predicate = fmt.Sprintf("AND({%s} = '%s', {%s} = '%s', {%s} = '%s')",
			fieldMovieID, movieID, fieldUser, userID, fieldFollowType, followType)
	}

	q := url.Values{}
	q.Set("filterByFormula", predicate)

	var list recordList
	if err := s.get(ctx, s.followCollection, "", q, &list); err != nil {
		return fmt.Errorf("find follow: %w", err)
	}
	if len(list.Records) == 0 {
		return domain.ErrNotFound
	}

	for _, rec := range list.Records {
		req, err := s.newRequest(ctx, http.MethodDelete, s.collectionURL(s.followCollection, rec.ID, nil), nil)
		if err != nil {
			return err
		}
		if err := s.do(req, http.StatusOK, nil); err != nil {
			return fmt.Errorf("delete follow %s: %w", rec.ID, err)
		}
	}
	return nil
}

// ListMovies pages through the catalog. The service paginates by row count,
// so earlier pages and the client's already-displayed set are fetched and
// skipped here; hasMore reports whether rows remained beyond the page.
func (s *HTTPStore) ListMovies(ctx context.Context, filter domain.MovieListFilter) ([]domain.Movie, bool, error) {
	skip := (filter.Page - 1) * filter.Limit
	fetch := skip + filter.Limit + len(filter.Exclude) + 1

	q := url.Values{}
	q.Set("maxRecords", strconv.Itoa(fetch))
	if filter.Query != "" {
		q.Set("filterByFormula", fmt.Sprintf("SEARCH(LOWER('%s'), LOWER({%s}))", filter.Query, fieldTitle))
	}

	var list recordList
	if err := s.get(ctx, s.movieCollection, "", q, &list); err != nil {
		return nil, false, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]domain.Movie, 0, filter.Limit)
	seen := 0
	hasMore := list.Offset != ""
	for _, rec := range list.Records {
		m := movieFromRecord(rec)
		if filter.Exclude[m.ID] {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if len(movies) == filter.Limit {
			hasMore = true
			break
		}
		movies = append(movies, m)
	}
	return movies, hasMore, nil
}

// ---- wire helpers ----

func (s *HTTPStore) collectionURL(collection, id string, q url.Values) string {
	u := s.baseURL + "/" + url.PathEscape(collection)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (s *HTTPStore) get(ctx context.Context, collection, id string, q url.Values, out any) error {
	req, err := s.newRequest(ctx, http.MethodGet, s.collectionURL(collection, id, q), nil)
	if err != nil {
		return err
	}
	return s.do(req, http.StatusOK, out)
}

func (s *HTTPStore) newRequest(ctx context.Context, method, rawURL string, body []byte) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return req, nil
}

func (s *HTTPStore) do(req *http.Request, wantStatus int, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("unexpected store status: %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func followFromRecord(rec record) domain.FollowRecord {
	return domain.FollowRecord{
		ID:          rec.ID,
		MovieID:     stringField(rec.Fields, fieldMovieID),
		Title:       stringField(rec.Fields, fieldTitle),
		ReleaseDate: stringField(rec.Fields, fieldReleaseDate),
		PosterPath:  stringField(rec.Fields, fieldPosterPath),
		UserID:      domain.UserID(firstLinkedID(rec.Fields, fieldUser)),
	}
}

func movieFromRecord(rec record) domain.Movie {
	return domain.Movie{
		ID:          stringField(rec.Fields, fieldMovieID),
		Title:       stringField(rec.Fields, fieldTitle),
		ReleaseDate: stringField(rec.Fields, fieldReleaseDate),
		PosterPath:  stringField(rec.Fields, fieldPosterPath),
		Overview:    stringField(rec.Fields, fieldOverview),
	}
}

func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

// firstLinkedID returns the first element of a linked-record field.
// The service encodes references as arrays of record IDs; the follow schema
// links zero or one user per record.
func firstLinkedID(fields map[string]any, key string) string {
	arr, ok := fields[key].([]any)
	if !ok || len(arr) == 0 {
		return ""
	}
	id, _ := arr[0].(string)
	return id
}

// compile-time check that HTTPStore implements RecordStore
var _ RecordStore = (*HTTPStore)(nil)

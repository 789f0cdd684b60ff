package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/store"
)

// MovieHandler serves the paginated catalog listing behind the UI's
// incremental "load more" view.
type MovieHandler struct {
	store  store.RecordStore
	logger *zap.Logger
}

func NewMovieHandler(s store.RecordStore, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{store: s, logger: logger}
}

// List handles GET /api/v1/movies
//
// Query parameters: page (default 1), limit (default 20, max 100), q
// (title filter), and exclude — a comma-separated set of identifiers the
// client already displays, so the returned page contains no duplicates.
// The response carries a has_more flag; the client disables further loading
// once it is false.
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseMovieFilter(r)

	movies, hasMore, err := h.store.ListMovies(r.Context(), filter)
	if err != nil {
		h.logger.Warn("list movies failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list movies")
		return
	}

	if movies == nil {
		movies = []domain.Movie{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data":     movies,
		"page":     filter.Page,
		"has_more": hasMore,
	})
}

func parseMovieFilter(r *http.Request) domain.MovieListFilter {
	q := r.URL.Query()
	filter := domain.MovieListFilter{Page: 1, Limit: 20, Exclude: map[string]bool{}}

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 100 {
		filter.Limit = l
	}
	if ex := q.Get("exclude"); ex != "" {
		for _, id := range strings.Split(ex, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.Exclude[id] = true
			}
		}
	}
	filter.Query = q.Get("q")
	return filter
}

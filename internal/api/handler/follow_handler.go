package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reelwatch/release-notifier/internal/domain"
	"github.com/reelwatch/release-notifier/internal/store"
)

// FollowHandler handles the follow/unfollow endpoints backing the UI's
// button toggles.
type FollowHandler struct {
	store  store.RecordStore
	logger *zap.Logger
}

func NewFollowHandler(s store.RecordStore, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{store: s, logger: logger}
}

// Create handles POST /api/v1/follows
//
// Marks a movie as followed for the given user. The intent is idempotent
// from the UI's perspective; the store keeps at most one follow per
// (movie, user, follow type).
func (h *FollowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		mapError(w, err)
		return
	}

	follow, err := h.store.CreateFollow(r.Context(), req)
	if err != nil {
		h.logger.Warn("create follow failed",
			zap.String("movie_id", req.MovieID),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, follow)
}

// Delete handles DELETE /api/v1/follows/{movieID}
//
// Removes the follow for (movie, user), optionally scoped by the
// follow_type query parameter. 404 when no matching follow exists.
func (h *FollowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieID")
	userID := domain.UserID(r.URL.Query().Get("user_id"))
	followType := r.URL.Query().Get("follow_type")

	if movieID == "" {
		mapError(w, domain.ErrInvalidMovieID)
		return
	}
	if userID == "" {
		mapError(w, domain.ErrInvalidUserID)
		return
	}

	if err := h.store.DeleteFollow(r.Context(), movieID, userID, followType); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

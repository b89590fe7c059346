package http

import (
	"net/http"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type FollowHandler struct {
	service ports.FollowService
}

func NewFollowHandler(service ports.FollowService) *FollowHandler {
	return &FollowHandler{
		service: service,
	}
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followedID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.Follow(r.Context(), requesterID(r), followedID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"followed_id": followedID})
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.Unfollow(r.Context(), requesterID(r), followedID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"unfollowed_id": followedID})
}

func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	followedID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	following, err := h.service.IsFollowing(r.Context(), requesterID(r), followedID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

func (h *FollowHandler) FollowStats(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	followers, err := h.service.FollowerCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	following, err := h.service.FollowingCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"followers": followers,
		"following": following,
	})
}

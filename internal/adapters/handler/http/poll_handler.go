package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type PollHandler struct {
	pollService ports.PollService
	voteService ports.VoteService
}

func NewPollHandler(pollService ports.PollService, voteService ports.VoteService) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		voteService: voteService,
	}
}

type createPollRequest struct {
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type createPollResponse struct {
	PollID int64 `json:"poll_id"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreatePollInput{
		CreatorID: requesterID(r),
		Question:  req.Question,
		Options:   req.Options,
	}
	if req.ExpiresAt != nil {
		input.ExpiresAt = *req.ExpiresAt
	}

	poll, err := h.pollService.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createPollResponse{PollID: poll.ID})
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	filter := ports.ParsePollFilter(r.URL.Query().Get("filter"))
	sortBy := ports.ParsePollSort(r.URL.Query().Get("sort"))

	views, err := h.pollService.List(r.Context(), requesterID(r), filter, sortBy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	view, err := h.pollService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	if err := h.pollService.Delete(r.Context(), id, requesterID(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type voteRequest struct {
	OptionID int64 `json:"option_id"`
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.voteService.Cast(r.Context(), pollID, req.OptionID, requesterID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "vote recorded"})
}

func (h *PollHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	voted, err := h.voteService.HasVoted(r.Context(), pollID, requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"voted": voted})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

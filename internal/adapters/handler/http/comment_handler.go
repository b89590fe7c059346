package http

import (
	"encoding/json"
	"net/http"

	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{
		service: service,
	}
}

type postCommentRequest struct {
	Text string `json:"text"`
}

type postCommentResponse struct {
	CommentID int64 `json:"comment_id"`
}

type likeCountResponse struct {
	LikeCount int `json:"like_count"`
}

func (h *CommentHandler) PostRootComment(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req postCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.service.PostRoot(r.Context(), pollID, requesterID(r), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postCommentResponse{CommentID: comment.ID})
}

func (h *CommentHandler) PostReply(w http.ResponseWriter, r *http.Request) {
	parentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	var req postCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.service.PostReply(r.Context(), parentID, requesterID(r), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, postCommentResponse{CommentID: comment.ID})
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	pollID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	views, err := h.service.ListForPoll(r.Context(), pollID, requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	parentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	views, err := h.service.ListReplies(r.Context(), parentID, requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *CommentHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	count, err := h.service.Like(r.Context(), commentID, requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeCountResponse{LikeCount: count})
}

func (h *CommentHandler) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	count, err := h.service.Unlike(r.Context(), commentID, requesterID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeCountResponse{LikeCount: count})
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), commentID, requesterID(r)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

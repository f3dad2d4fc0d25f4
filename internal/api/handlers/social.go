package handlers

import (
	"net/http"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/service"
)

// SocialHandler serves invoice milestone posts
type SocialHandler struct {
	socialService *service.SocialService
}

// NewSocialHandler creates a new social post handler
func NewSocialHandler(socialService *service.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

// Post handles POST /api/v1/social-post
func (h *SocialHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req domain.SocialPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.socialService.Post(&req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// Milestones handles GET /api/v1/milestones
func (h *SocialHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	progress, err := h.socialService.Progress(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

package handlers

import (
	"bytes"
	"net/http"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/pdf"
	"github.com/smartinvoice/smartinvoice/internal/service"
)

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.List(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// Create handles POST /api/v1/quotes
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.quoteService.Create(r.Context(), ownerID(r), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	setFallbackHeader(w, resp.IdentifierFallback)
	respondJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/quotes/{id}
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Get(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete handles DELETE /api/v1/quotes/{id}
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.quoteService.Delete(r.Context(), ownerID(r), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateStatus handles PATCH /api/v1/quotes/{id}/status
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.quoteService.UpdateStatus(r.Context(), ownerID(r), id, req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// NextNumber handles GET /api/v1/quotes/next-number
func (h *QuoteHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.quoteService.NextNumber(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	setFallbackHeader(w, next.Fallback)
	respondJSON(w, http.StatusOK, next)
}

// PDF handles GET /api/v1/quotes/{id}/pdf
func (h *QuoteHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Get(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.RenderQuote(&buf, quote); err != nil {
		respondServiceError(w, r, err)
		return
	}

	writePDF(w, quote.Number, &buf)
}

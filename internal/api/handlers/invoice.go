package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/pdf"
	"github.com/smartinvoice/smartinvoice/internal/service"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceService.List(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, invoices)
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InvoiceCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.invoiceService.Create(r.Context(), ownerID(r), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	setFallbackHeader(w, resp.IdentifierFallback)
	respondJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Delete handles DELETE /api/v1/invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(r.Context(), ownerID(r), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateStatus handles PATCH /api/v1/invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.StatusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(r.Context(), ownerID(r), id, req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// NextNumber handles GET /api/v1/invoices/next-number
func (h *InvoiceHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.invoiceService.NextNumber(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	setFallbackHeader(w, next.Fallback)
	respondJSON(w, http.StatusOK, next)
}

// PDF handles GET /api/v1/invoices/{id}/pdf
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := pdf.RenderInvoice(&buf, invoice); err != nil {
		respondServiceError(w, r, err)
		return
	}

	writePDF(w, invoice.Number, &buf)
}

// writePDF sends a rendered document as a download
func writePDF(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Disposition", "attachment; filename="+name+".pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

package handlers

import (
	"net/http"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/service"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// List handles GET /api/v1/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.List(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, expenses)
}

// Create handles POST /api/v1/expenses
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Create(r.Context(), ownerID(r), &req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, expense)
}

// Get handles GET /api/v1/expenses/{id}
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	expense, err := h.expenseService.Get(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, expense)
}

// Delete handles DELETE /api/v1/expenses/{id}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(r.Context(), ownerID(r), id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Categories handles GET /api/v1/expense-categories
func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.ExpenseCategoryListResponse{
		Categories: h.expenseService.Categories(),
	})
}

// Package api provides HTTP API handlers for the drawVSAI game.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amechi-aduba/drawVSAI-react/internal/store"
)

// CategoryHandler handles HTTP requests for category resources.
//
// The category list must stay index-aligned with the classifier's
// output vector; adding or removing entries only takes effect when the
// classifier is retrained with the matching list. The API still exposes
// the full CRUD so the list can be curated.
type CategoryHandler struct {
	store *store.Store
}

// NewCategoryHandler creates a new CategoryHandler with the given store.
func NewCategoryHandler(s *store.Store) *CategoryHandler {
	return &CategoryHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to appropriate methods.
func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/categories or /api/categories/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/categories")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createCategoryRequest struct {
	Label string `json:"label"`
}

type categoryResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
}

type listCategoriesResponse struct {
	Categories []categoryResponse `json:"categories"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Category to a categoryResponse.
func toResponse(c *store.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Label:     c.Label,
		Position:  c.Position,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/categories and returns all categories in
// position order.
func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	response := listCategoriesResponse{
		Categories: make([]categoryResponse, 0, len(categories)),
	}
	for _, c := range categories {
		response.Categories = append(response.Categories, toResponse(c))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/categories/{id} and returns a single category.
func (h *CategoryHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	category, err := h.store.Categories().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get category")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(category))
}

// create handles POST /api/categories and appends a new category at the
// end of the list.
func (h *CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "Label is required")
		return
	}

	existing, err := h.store.Categories().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	category := &store.Category{
		ID:       uuid.New().String(),
		Label:    req.Label,
		Position: len(existing),
	}

	if err := h.store.Categories().Create(category); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(category))
}

// delete handles DELETE /api/categories/{id} and removes a category.
func (h *CategoryHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Categories().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

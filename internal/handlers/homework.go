package handlers

import (
	"net/http"

	"github.com/benvon/homework-helper/internal/homework"
	"github.com/benvon/homework-helper/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HomeworkHandler exposes the homework list
type HomeworkHandler struct {
	store  *homework.Store
	logger *zap.Logger
}

// NewHomeworkHandler creates a new homework handler
func NewHomeworkHandler(store *homework.Store, logger *zap.Logger) *HomeworkHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeworkHandler{store: store, logger: logger}
}

// RegisterRoutes registers homework routes on a router already prefixed with /homework
func (h *HomeworkHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHomework).Methods("GET")
	r.HandleFunc("", h.CreateHomework).Methods("POST")
	r.HandleFunc("/stats", h.Stats).Methods("GET")
	r.HandleFunc("/{id:[0-9]+}/toggle", h.ToggleHomework).Methods("POST")
	r.HandleFunc("/{id:[0-9]+}", h.DeleteHomework).Methods("DELETE")
}

// CreateHomeworkRequest represents a create homework request
type CreateHomeworkRequest struct {
	Text     string `json:"text" validate:"notblank,max=1000"`
	DueDate  string `json:"dueDate,omitempty" validate:"omitempty,duedate"`
	Category string `json:"category,omitempty" validate:"max=100"`
}

// ListHomework returns every item in insertion order
func (h *HomeworkHandler) ListHomework(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.List())
}

// CreateHomework appends a new item. Blank text is rejected here; the store
// itself accepts anything.
func (h *HomeworkHandler) CreateHomework(w http.ResponseWriter, r *http.Request) {
	var req CreateHomeworkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	// Text is stored as submitted; blankness was only checked above.
	item := h.store.Add(req.Text, req.DueDate, req.Category)
	h.logger.Debug("homework_created",
		zap.Int64("id", item.ID),
		zap.Bool("has_due_date", item.DueDate != ""),
		zap.String("category", item.Category),
	)
	respondJSON(w, http.StatusCreated, item)
}

// ToggleHomework flips the completed flag
func (h *HomeworkHandler) ToggleHomework(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid homework ID")
		return
	}

	item, ok := h.store.Toggle(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Homework item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteHomework removes an item
func (h *HomeworkHandler) DeleteHomework(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid homework ID")
		return
	}

	if !h.store.Delete(id) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Homework item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns pending and completed counts
func (h *HomeworkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Stats())
}

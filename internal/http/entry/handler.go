package entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/auth"
	"github.com/MrJamesThe3rd/shopledger/internal/http/query"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

type Handler struct {
	svc              *ledger.Service
	fallbackCategory string
}

func NewHandler(svc *ledger.Service, fallbackCategory string) *Handler {
	return &Handler{svc: svc, fallbackCategory: fallbackCategory}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createEntryRequest struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	kind, ok := ledger.ParseKind(req.Type)
	if !ok {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = h.fallbackCategory
	}

	actor, _ := auth.ActorFromContext(r.Context())

	e, err := h.svc.Create(r.Context(), ledger.CreateParams{
		Date:        date,
		Kind:        kind,
		Category:    category,
		Description: req.Description,
		Amount:      req.Amount,
		CreatedBy:   actor,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidEntry) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		logging.FromContext(r.Context()).Error("failed to create entry", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := query.Filter(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := query.Order(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := query.Page(q, &filter); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.svc.List(r.Context(), filter, order)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list entries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	total, err := h.svc.Count(r.Context(), filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to count entries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Total-Count", strconv.Itoa(total))

	if err := json.NewEncoder(w).Encode(toResponseList(entries)); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e)); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	logging.FromContext(r.Context()).Info("entry deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shopledger/internal/category"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type listResponse struct {
	Categories []string `json:"categories"`
	Fallback   string   `json:"fallback"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var kind *ledger.Kind

	if s := r.URL.Query().Get("type"); s != "" {
		k, ok := ledger.ParseKind(s)
		if !ok {
			http.Error(w, "type must be income or expense", http.StatusBadRequest)
			return
		}

		kind = new(k)
	}

	categories, err := h.svc.List(r.Context(), kind)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list categories", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(listResponse{
		Categories: categories,
		Fallback:   h.svc.FallbackLabel(),
	}); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

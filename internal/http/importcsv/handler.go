package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shopledger/internal/auth"
	"github.com/MrJamesThe3rd/shopledger/internal/importer"
	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

// multipartMemory is how much of an upload is held in memory before spilling to disk.
const multipartMemory = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type rowErrorResponse struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type importResponse struct {
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Errors       []rowErrorResponse `json:"errors"`
	Error        string             `json:"error,omitempty"`
}

func toResponse(o *importer.Outcome) importResponse {
	resp := importResponse{Errors: []rowErrorResponse{}}
	if o == nil {
		return resp
	}

	resp.SuccessCount = o.SuccessCount
	resp.ErrorCount = o.ErrorCount

	for _, e := range o.Errors {
		resp.Errors = append(resp.Errors, rowErrorResponse{Row: e.Row, Reason: e.Err.Error()})
	}

	return resp
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	actor, _ := auth.ActorFromContext(r.Context())

	outcome, err := h.svc.Import(r.Context(), file, actor)

	status := http.StatusOK

	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrStoreWriteFailed):
		status = http.StatusInternalServerError
	case errors.Is(err, importer.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	default:
		status = http.StatusBadRequest
	}

	resp := toResponse(outcome)
	if err != nil {
		resp.Error = err.Error()

		logging.FromContext(r.Context()).Warn("import rejected", "error", err, "status", status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

package export

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shopledger/internal/export"
	"github.com/MrJamesThe3rd/shopledger/internal/http/query"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profile, err := export.ParseProfile(q.Get("profile"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

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

	// Buffered so a failure can still be reported with a proper status.
	var buf bytes.Buffer

	n, err := h.svc.Export(r.Context(), &buf, export.Options{
		Profile: profile,
		Filter:  filter,
		Order:   order,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to export entries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write export", "error", err)
		return
	}

	logging.FromContext(r.Context()).Info("export served", "rows", n, "profile", profile)
}

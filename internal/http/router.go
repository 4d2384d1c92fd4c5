package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/shopledger/internal/auth"
	"github.com/MrJamesThe3rd/shopledger/internal/http/category"
	"github.com/MrJamesThe3rd/shopledger/internal/http/entry"
	"github.com/MrJamesThe3rd/shopledger/internal/http/export"
	"github.com/MrJamesThe3rd/shopledger/internal/http/importcsv"
	"github.com/MrJamesThe3rd/shopledger/internal/http/summary"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

type Options struct {
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	opts Options,
	entriesV1 *entry.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	categoriesV1 *category.Handler,
	summaryV1 *summary.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Total-Count"},
		MaxAge:         300,
	}))

	router.Get("/health", health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.AuthSecret))

		r.Route("/entries", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			entriesV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
		r.Route("/categories", categoriesV1.Routes)
		r.Route("/summary", summaryV1.Routes)
	})

	return router
}

// requestLogger tags the request-scoped logger with chi's request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := slog.Default().With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), l)))
	})
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}

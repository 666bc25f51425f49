package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sales-service/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	r.Route("/api/sales", func(r chi.Router) {
		r.Post("/", h.createSale)
		r.Get("/", h.listSales)
		r.Get("/by-number/{saleNumber}", h.getSaleBySaleNumber)

		r.Route("/{saleID}", func(r chi.Router) {
			r.Get("/", h.getSale)
			r.Put("/", h.updateSale)
			r.Delete("/", h.deleteSale)
			r.Post("/cancel", h.cancelSale)
			r.Post("/items", h.addSaleItem)
			r.Post("/items/{product}/cancel", h.cancelSaleItem)
		})

		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Put("/", h.updateSaleItem)
			r.Delete("/", h.deleteSaleItem)
		})
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pr-poehali-dev/inventory-management-system-4/api/controllers"
	"github.com/pr-poehali-dev/inventory-management-system-4/api/middleware"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/draft"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/invoices"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/printing"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/config"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/metrics"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Catalog     catalog.Service
	Draft       draft.Service
	Invoices    invoices.Service
	Renderer    *printing.Renderer
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.App.AllowedOrigins()),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DB))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Catalog, d.Logger))
			r.Post("/", controllers.CreateProduct(d.Catalog, d.Logger))
			r.Delete("/{productId}", controllers.DeleteProduct(d.Catalog, d.Logger))
		})

		r.Get("/summary", controllers.Summary(d.Catalog, d.Invoices, d.Logger))

		r.Route("/draft", func(r chi.Router) {
			r.Get("/", controllers.GetDraft(d.Draft, d.Logger))
			r.Post("/items", controllers.AddDraftItem(d.Draft, d.Logger))
			r.Delete("/items/{productId}", controllers.RemoveDraftItem(d.Draft, d.Logger))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.ListInvoices(d.Invoices, d.Logger))
			r.Post("/", controllers.CommitInvoice(d.Invoices, d.Logger))
			r.Get("/{invoiceId}", controllers.GetInvoice(d.Invoices, d.Logger))
			r.Get("/{invoiceId}/document", controllers.InvoiceDocument(d.Invoices, d.Renderer, d.Logger))
		})
	})

	return r
}

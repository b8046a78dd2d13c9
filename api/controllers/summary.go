package controllers

import (
	"net/http"

	"github.com/pr-poehali-dev/inventory-management-system-4/api/responses"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/invoices"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
	"github.com/shopspring/decimal"
)

type summaryResponse struct {
	TotalValue   decimal.Decimal `json:"total_value"`
	ProductCount int64           `json:"product_count"`
	InvoiceCount int64           `json:"invoice_count"`
}

// Summary backs the dashboard header: total warehouse value plus counts.
func Summary(catalogSvc catalog.Service, invoiceSvc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totalValue, err := catalogSvc.TotalValue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productCount, err := catalogSvc.CountProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		invoiceCount, err := invoiceSvc.CountInvoices(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaryResponse{
			TotalValue:   totalValue,
			ProductCount: productCount,
			InvoiceCount: invoiceCount,
		})
	}
}

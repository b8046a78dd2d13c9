package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/draft"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// DateLayout is how invoice dates are rendered for the UI and the printable
// document.
const DateLayout = "02.01.2006"

// Service finalizes drafts into the append-only ledger.
type Service interface {
	Commit(ctx context.Context) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context) ([]InvoiceDTO, error)
	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDTO, error)
	CountInvoices(ctx context.Context) (int64, error)
}

// ItemDTO is one immutable line of a committed invoice.
type ItemDTO struct {
	Position  int             `json:"position"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceDTO is the read shape of a committed invoice.
type InvoiceDTO struct {
	ID       uuid.UUID       `json:"id"`
	Number   string          `json:"number"`
	Date     string          `json:"date"`
	IssuedAt time.Time       `json:"issued_at"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemDTO       `json:"items"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx          txRunner
	repo        *Repository
	draftRepo   *draft.Repository
	catalogRepo *catalog.Repository
	now         func() time.Time
}

// NewService builds the ledger service.
func NewService(tx txRunner, repo *Repository, draftRepo *draft.Repository, catalogRepo *catalog.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if draftRepo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{
		tx:          tx,
		repo:        repo,
		draftRepo:   draftRepo,
		catalogRepo: catalogRepo,
		now:         time.Now,
	}, nil
}

// Commit turns the current draft into a committed invoice: every staged line
// is re-validated against live stock before any decrement, stock is reduced,
// an immutable snapshot is prepended to the ledger and the draft is cleared.
// The whole operation runs in one transaction, so a failing line leaves
// catalog, ledger and draft exactly as they were.
func (s *service) Commit(ctx context.Context) (*InvoiceDTO, error) {
	var dto *InvoiceDTO

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		draftRepo := s.draftRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)
		invoiceRepo := s.repo.WithTx(tx)

		lines, err := draftRepo.List(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading draft")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot commit an empty invoice")
		}

		products, err := s.validateStock(ctx, catalogRepo, lines)
		if err != nil {
			return err
		}

		for _, line := range lines {
			if err := catalogRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		seq, err := invoiceRepo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading ledger sequence")
		}

		issuedAt := s.now()
		invoice := &models.Invoice{
			ID:       uuid.New(),
			Number:   fmt.Sprintf("INV-%06d", seq+1),
			IssuedAt: issuedAt,
			Total:    decimal.Zero,
		}
		for i, line := range lines {
			product := products[line.ProductID]
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			productID := line.ProductID
			invoice.Items = append(invoice.Items, models.InvoiceItem{
				ID:        uuid.New(),
				InvoiceID: invoice.ID,
				ProductID: &productID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  line.Quantity,
				LineTotal: lineTotal,
				Position:  i + 1,
			})
			invoice.Total = invoice.Total.Add(lineTotal)
		}

		if err := invoiceRepo.Create(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording invoice")
		}
		if err := draftRepo.Clear(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing draft")
		}

		d := toInvoiceDTO(invoice)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// validateStock checks every staged line against current stock and returns
// the loaded products keyed by id. All shortfalls are collected before
// failing so the UI can report the whole problem at once.
func (s *service) validateStock(ctx context.Context, catalogRepo *catalog.Repository, lines []models.DraftItem) (map[uuid.UUID]*models.Product, error) {
	products := make(map[uuid.UUID]*models.Product, len(lines))
	var shortfalls []map[string]any
	var errs []error

	for _, line := range lines {
		product, err := catalogRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				shortfalls = append(shortfalls, map[string]any{
					"product_id": line.ProductID.String(),
					"reason":     "product no longer exists",
				})
				errs = append(errs, err)
				continue
			}
			return nil, err
		}
		if line.Quantity > product.Quantity {
			shortfalls = append(shortfalls, map[string]any{
				"product_id": line.ProductID.String(),
				"name":       product.Name,
				"available":  product.Quantity,
				"requested":  line.Quantity,
			})
			errs = append(errs, fmt.Errorf("product %s: requested %d, available %d", product.Name, line.Quantity, product.Quantity))
			continue
		}
		products[line.ProductID] = product
	}

	if len(errs) > 0 {
		combined := multierr.Combine(errs...)
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, combined, "insufficient stock for draft").
			WithDetails(map[string]any{"lines": shortfalls})
	}
	return products, nil
}

func (s *service) ListInvoices(ctx context.Context) ([]InvoiceDTO, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing invoices")
	}
	dtos := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, toInvoiceDTO(&invoices[i]))
	}
	return dtos, nil
}

func (s *service) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	dto := toInvoiceDTO(invoice)
	return &dto, nil
}

func (s *service) CountInvoices(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting invoices")
	}
	return count, nil
}

func toInvoiceDTO(invoice *models.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:       invoice.ID,
		Number:   invoice.Number,
		Date:     invoice.IssuedAt.Format(DateLayout),
		IssuedAt: invoice.IssuedAt,
		Total:    invoice.Total,
		Items:    make([]ItemDTO, 0, len(invoice.Items)),
	}
	for _, item := range invoice.Items {
		dto.Items = append(dto.Items, ItemDTO{
			Position:  item.Position,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return dto
}

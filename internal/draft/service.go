package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service assembles the current unsaved invoice.
type Service interface {
	AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*DraftDTO, error)
	RemoveItem(ctx context.Context, productID uuid.UUID) (*DraftDTO, error)
	Get(ctx context.Context) (*DraftDTO, error)
	Clear(ctx context.Context) error
}

// LineDTO is one staged line joined with the live catalog entry.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Available int             `json:"available"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// DraftDTO is the full builder-panel view of the draft.
type DraftDTO struct {
	Items []LineDTO       `json:"items"`
	Total decimal.Decimal `json:"total"`
	Empty bool            `json:"empty"`
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService constructs a draft service instance.
func NewService(repo *Repository, products *catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddItem stages quantity units of the product. The availability check runs
// against the live catalog count only; lines already staged for the same
// product are not double-counted here. The commit re-validates the whole
// draft atomically, so an overcommitted draft fails there instead of driving
// stock negative.
func (s *service) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*DraftDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").WithDetails(map[string]any{
			"product_id": productID.String(),
			"available":  product.Quantity,
			"requested":  quantity,
		})
	}

	existing, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading staged line")
	}
	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating staged line")
		}
	} else {
		item := &models.DraftItem{ProductID: productID, Quantity: quantity}
		if err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "staging line")
		}
	}

	return s.Get(ctx)
}

// RemoveItem drops the staged line for the product. Removing an absent line
// is a no-op, mirroring the UI where the delete control only exists on
// rendered lines.
func (s *service) RemoveItem(ctx context.Context, productID uuid.UUID) (*DraftDTO, error) {
	if _, err := s.repo.DeleteByProductID(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing staged line")
	}
	return s.Get(ctx)
}

// Get returns the staged lines joined with live catalog data plus the total.
func (s *service) Get(ctx context.Context) (*DraftDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing staged lines")
	}

	dto := &DraftDTO{
		Items: make([]LineDTO, 0, len(items)),
		Total: decimal.Zero,
		Empty: len(items) == 0,
	}
	for _, item := range items {
		line := LineDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: decimal.Zero,
			LineTotal: decimal.Zero,
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err == nil {
			line.Name = product.Name
			line.UnitPrice = product.Price
			line.Available = product.Quantity
			line.LineTotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
		// A line whose product vanished keeps zero price here and is
		// rejected by the commit pre-validation.
		dto.Total = dto.Total.Add(line.LineTotal)
		dto.Items = append(dto.Items, line)
	}
	return dto, nil
}

// Clear resets the draft to empty.
func (s *service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing draft")
	}
	return nil
}

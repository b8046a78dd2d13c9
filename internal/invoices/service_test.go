package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/internal/draft"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	svc      Service
	draftSvc draft.Service
	db       *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:invoices_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.DraftItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
	))

	catalogRepo := catalog.NewRepository(db)
	draftRepo := draft.NewRepository(db)

	draftSvc, err := draft.NewService(draftRepo, catalogRepo)
	require.NoError(t, err)

	svc, err := NewService(gormTxRunner{db: db}, NewRepository(db), draftRepo, catalogRepo)
	require.NoError(t, err)

	return &fixture{svc: svc, draftSvc: draftSvc, db: db}
}

func (f *fixture) seedProduct(t *testing.T, name string, quantity int, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Quantity: quantity,
		Price:    decimal.NewFromInt(price),
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, f.db.First(&product, "id = ?", id).Error)
	return product.Quantity
}

func TestCommitDecrementsStockAndClearsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	laptop := f.seedProduct(t, "Laptop", 12, 85000)

	_, err := f.draftSvc.AddItem(ctx, laptop.ID, 5)
	require.NoError(t, err)

	invoice, err := f.svc.Commit(ctx)
	require.NoError(t, err)

	require.Equal(t, "INV-000001", invoice.Number)
	require.True(t, invoice.Total.Equal(decimal.NewFromInt(5*85000)), "got %s", invoice.Total)
	require.Len(t, invoice.Items, 1)
	require.Equal(t, 1, invoice.Items[0].Position)
	require.Equal(t, "Laptop", invoice.Items[0].Name)
	require.Equal(t, 5, invoice.Items[0].Quantity)

	require.Equal(t, 7, f.stockOf(t, laptop.ID))

	dto, err := f.draftSvc.Get(ctx)
	require.NoError(t, err)
	require.True(t, dto.Empty, "draft must be cleared after commit")
}

func TestCommitEmptyDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Commit(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCommitInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	laptop := f.seedProduct(t, "Laptop", 12, 85000)
	cable := f.seedProduct(t, "Cable", 5, 100)

	_, err := f.draftSvc.AddItem(ctx, laptop.ID, 3)
	require.NoError(t, err)
	_, err = f.draftSvc.AddItem(ctx, cable.ID, 4)
	require.NoError(t, err)

	// Drain the cable stock behind the draft's back so the commit-time
	// re-validation fails on the second line.
	require.NoError(t, f.db.Model(&models.Product{}).
		Where("id = ?", cable.ID).
		Update("quantity", 2).Error)

	_, err = f.svc.Commit(ctx)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.Equal(t, 12, f.stockOf(t, laptop.ID), "no line may be decremented when any line fails")
	require.Equal(t, 2, f.stockOf(t, cable.ID))

	invoices, err := f.svc.ListInvoices(ctx)
	require.NoError(t, err)
	require.Empty(t, invoices, "failed commit must not reach the ledger")

	dto, err := f.draftSvc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, dto.Items, 2, "failed commit must keep the draft for correction")
}

func TestCommitRejectsDeletedProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mouse := f.seedProduct(t, "Mouse", 3, 900)

	_, err := f.draftSvc.AddItem(ctx, mouse.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(&models.Product{}, "id = ?", mouse.ID).Error)

	_, err = f.svc.Commit(ctx)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLedgerIsNewestFirstWithSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	laptop := f.seedProduct(t, "Laptop", 12, 85000)

	_, err := f.draftSvc.AddItem(ctx, laptop.ID, 1)
	require.NoError(t, err)
	first, err := f.svc.Commit(ctx)
	require.NoError(t, err)

	_, err = f.draftSvc.AddItem(ctx, laptop.ID, 2)
	require.NoError(t, err)
	second, err := f.svc.Commit(ctx)
	require.NoError(t, err)

	require.Equal(t, "INV-000001", first.Number)
	require.Equal(t, "INV-000002", second.Number)

	invoices, err := f.svc.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	require.Equal(t, second.Number, invoices[0].Number, "newest invoice must come first")
	require.Equal(t, first.Number, invoices[1].Number)
}

func TestSnapshotSurvivesProductDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keyboard := f.seedProduct(t, "Keyboard", 45, 3200)

	_, err := f.draftSvc.AddItem(ctx, keyboard.ID, 2)
	require.NoError(t, err)
	committed, err := f.svc.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&models.Product{}, "id = ?", keyboard.ID).Error)

	got, err := f.svc.GetInvoice(ctx, committed.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, "Keyboard", got.Items[0].Name)
	require.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromInt(3200)))
	require.True(t, got.Total.Equal(decimal.NewFromInt(2*3200)))
}

func TestGetInvoiceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetInvoice(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestInvoiceDateFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	laptop := f.seedProduct(t, "Laptop", 12, 85000)

	fixed := time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return fixed }

	_, err := f.draftSvc.AddItem(ctx, laptop.ID, 1)
	require.NoError(t, err)
	invoice, err := f.svc.Commit(ctx)
	require.NoError(t, err)

	require.Equal(t, "07.03.2026", invoice.Date)
}

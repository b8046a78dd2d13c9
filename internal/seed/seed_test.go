package seed

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
)

func newTestService(t *testing.T) catalog.Service {
	t.Helper()
	dsn := "file:seed_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	svc, err := catalog.NewService(catalog.NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestRunSeedsDemoCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, svc, nil))

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "Ноутбук Dell XPS 15", products[0].Name)
	require.Equal(t, 12, products[0].Quantity)
}

func TestRunSkipsNonEmptyCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, Run(ctx, svc, nil))
	require.NoError(t, Run(ctx, svc, nil))

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3, "seeding twice must not duplicate products")
}

package seed

import (
	"context"
	"fmt"

	"github.com/pr-poehali-dev/inventory-management-system-4/internal/catalog"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
	"github.com/shopspring/decimal"
)

// demoProducts is the stock the UI starts with when demo data is enabled.
var demoProducts = []catalog.CreateProductInput{
	{Name: "Ноутбук Dell XPS 15", Quantity: 12, Price: decimal.NewFromInt(85000)},
	{Name: "Монитор Samsung 27\"", Quantity: 25, Price: decimal.NewFromInt(18500)},
	{Name: "Клавиатура Logitech", Quantity: 45, Price: decimal.NewFromInt(3200)},
}

// Run populates the catalog with the demo products. The database is reborn
// empty on every boot, so seeding only skips itself when products already
// exist, which happens in tests that build their own fixtures.
func Run(ctx context.Context, svc catalog.Service, logg *logger.Logger) error {
	count, err := svc.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("checking catalog before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, input := range demoProducts {
		if _, err := svc.CreateProduct(ctx, input); err != nil {
			return fmt.Errorf("seeding product %q: %w", input.Name, err)
		}
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "products", len(demoProducts))
		logg.Info(ctx, "demo catalog seeded")
	}
	return nil
}

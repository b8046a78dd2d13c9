package migrate

import (
	"context"
	"fmt"

	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/db/models"
	"github.com/pr-poehali-dev/inventory-management-system-4/pkg/logger"
)

// Run creates the schema for the session database. The database is born empty
// on every boot, so schema creation always runs and there is no migration
// history to track.
func Run(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	if client == nil {
		return fmt.Errorf("db client required")
	}

	if err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.DraftItem{},
		&models.Invoice{},
		&models.InvoiceItem{},
	); err != nil {
		return fmt.Errorf("migrating session schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "session schema ready")
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftItem is one staged line of the current unsaved invoice. The integer
// primary key doubles as insertion order; the unique index on product_id
// enforces at most one line per product.
type DraftItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

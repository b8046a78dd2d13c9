package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a committed, immutable record of a sale. Rows are only ever
// inserted; there is no update or delete path.
type Invoice struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Number    string          `gorm:"column:number;not null;uniqueIndex"`
	IssuedAt  time.Time       `gorm:"column:issued_at;not null"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	Items     []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem captures the snapshot of each item within an order. Name and
// price are copied from the product at checkout time so later catalog edits do
// not rewrite order history.
type OrderLineItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Name       string          `gorm:"column:name;not null"`
	Size       *string         `gorm:"column:size"`
	Qty        int             `gorm:"column:qty;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

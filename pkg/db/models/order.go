package models

import (
	"time"

	"github.com/angelmondragon/threadcart-backend/pkg/enums"
	"github.com/angelmondragon/threadcart-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a placed storefront order. UserID is nil for guest checkouts.
// CreatedAt is immutable once assigned.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	User            *User               `gorm:"foreignKey:UserID"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	IsPaid          bool                `gorm:"column:is_paid;not null;default:false"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	IsDelivered     bool                `gorm:"column:is_delivered;not null;default:false"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'card'"`
	ShippingAddress *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

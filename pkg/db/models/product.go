package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a storefront catalog listing. Category is free text and
// compared case-sensitively everywhere it is consumed.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Category    string          `gorm:"column:category;not null;index"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Sizes       pq.StringArray  `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURLs   pq.StringArray  `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool            `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package dashboard

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
)

// Inputs is the full materialized state the aggregation runs over. Orders must
// carry their User association when one exists.
type Inputs struct {
	Orders        []models.Order
	CustomerCount int64
	Products      []models.Product
	Now           time.Time
}

// Stats is the headline block of the dashboard payload.
type Stats struct {
	Revenue         json.Number `json:"revenue"`
	TotalOrders     int         `json:"totalOrders"`
	ActiveCustomers int64       `json:"activeCustomers"`
	ConversionRate  string      `json:"conversionRate"`
}

// RecentOrder is one display-ready row of the latest-orders table.
type RecentOrder struct {
	ID            string `json:"id"`
	CustomerLabel string `json:"customerLabel"`
	AmountLabel   string `json:"amountLabel"`
	StatusLabel   string `json:"statusLabel"`
	TimeLabel     string `json:"timeLabel"`
}

// CategorySlice is one chart-ready slice of the product category split.
type CategorySlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// SalesBucket is one weekday bucket of the trailing 7-day sales series.
type SalesBucket struct {
	DayName    string      `json:"dayName"`
	SalesTotal json.Number `json:"salesTotal"`
	OrderCount int         `json:"orderCount"`
}

// Snapshot is the transient dashboard payload. It has no identity or
// lifecycle; every invocation recomputes it fully from current state.
type Snapshot struct {
	Stats        Stats           `json:"stats"`
	RecentOrders []RecentOrder   `json:"recentOrders"`
	CategoryData []CategorySlice `json:"categoryData"`
	SalesData    []SalesBucket   `json:"salesData"`
}

package dashboard

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
)

const recentOrderLimit = 4

var categoryPalette = [4]string{"#2D2424", "#B2A08B", "#E0C097", "#5C3D2E"}

// Category names with a fixed palette slot. The two lowercase entries are
// legacy aliases kept for older catalog rows.
var knownCategoryColors = map[string]int{
	"Men":         0,
	"Women":       1,
	"Kids":        2,
	"Accessories": 3,
	"electronics": 0,
	"clothing":    1,
}

var placeholderCategories = []CategorySlice{
	{Name: "Men", Value: 400, Color: categoryPalette[0]},
	{Name: "Women", Value: 300, Color: categoryPalette[1]},
	{Name: "Kids", Value: 200, Color: categoryPalette[2]},
	{Name: "Accessories", Value: 100, Color: categoryPalette[3]},
}

// Compute builds the dashboard snapshot from the provided state. It performs
// no I/O, never fails, and is deterministic for identical inputs.
func Compute(in Inputs) Snapshot {
	return Snapshot{
		Stats:        computeStats(in),
		RecentOrders: computeRecentOrders(in.Orders),
		CategoryData: computeCategoryData(in.Products),
		SalesData:    computeSalesData(in),
	}
}

func computeStats(in Inputs) Stats {
	revenue := decimal.Zero
	for i := range in.Orders {
		if in.Orders[i].IsPaid {
			revenue = revenue.Add(in.Orders[i].TotalPrice)
		}
	}

	return Stats{
		Revenue:         json.Number(revenue.String()),
		TotalOrders:     len(in.Orders),
		ActiveCustomers: in.CustomerCount,
		ConversionRate:  conversionRate(len(in.Orders), in.CustomerCount),
	}
}

// conversionRate reproduces the source heuristic: orders over five times the
// customer count, as a percentage. The source divides by zero when there are
// orders but no customers; that case collapses to "0.00" here.
func conversionRate(totalOrders int, customers int64) string {
	if totalOrders == 0 || customers == 0 {
		return "0.00"
	}
	rate := decimal.NewFromInt(int64(totalOrders)).
		Div(decimal.NewFromInt(customers * 5)).
		Mul(decimal.NewFromInt(100))
	return rate.StringFixed(2)
}

func computeRecentOrders(orders []models.Order) []RecentOrder {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	limit := recentOrderLimit
	if len(sorted) < limit {
		limit = len(sorted)
	}

	recent := make([]RecentOrder, 0, limit)
	for i := 0; i < limit; i++ {
		order := &sorted[i]
		recent = append(recent, RecentOrder{
			ID:            shortOrderID(order.ID.String()),
			CustomerLabel: customerLabel(order),
			AmountLabel:   "$" + order.TotalPrice.StringFixed(2),
			StatusLabel:   statusLabel(order),
			TimeLabel:     order.CreatedAt.Format("02/01/2006"),
		})
	}
	return recent
}

func shortOrderID(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "#" + strings.ToUpper(id)
}

func customerLabel(order *models.Order) string {
	if order.User != nil && order.User.Name != "" {
		return order.User.Name
	}
	return "Guest User"
}

func statusLabel(order *models.Order) string {
	switch {
	case order.IsDelivered:
		return "Delivered"
	case order.IsPaid:
		return "Processing"
	default:
		return "Pending"
	}
}

func computeCategoryData(products []models.Product) []CategorySlice {
	if len(products) == 0 {
		out := make([]CategorySlice, len(placeholderCategories))
		copy(out, placeholderCategories)
		return out
	}

	var slices []CategorySlice
	indexByName := make(map[string]int)
	for i := range products {
		name := products[i].Category
		if idx, seen := indexByName[name]; seen {
			slices[idx].Value += 100
			continue
		}
		position := len(slices)
		colorIdx, known := knownCategoryColors[name]
		if !known {
			colorIdx = position % len(categoryPalette)
		}
		indexByName[name] = position
		slices = append(slices, CategorySlice{
			Name:  name,
			Value: 100,
			Color: categoryPalette[colorIdx],
		})
	}
	return slices
}

func computeSalesData(in Inputs) []SalesBucket {
	type bucket struct {
		sales  decimal.Decimal
		orders int
	}

	days := make([]string, 0, 7)
	buckets := make(map[string]*bucket, 7)
	for offset := 6; offset >= 0; offset-- {
		day := in.Now.AddDate(0, 0, -offset)
		name := day.Format("Mon")
		days = append(days, name)
		buckets[name] = &bucket{sales: decimal.Zero}
	}

	windowStart := dateOnly(in.Now.AddDate(0, 0, -6))
	windowEnd := dateOnly(in.Now)
	for i := range in.Orders {
		order := &in.Orders[i]
		if !order.IsPaid {
			continue
		}
		created := dateOnly(order.CreatedAt.In(in.Now.Location()))
		if created.Before(windowStart) || created.After(windowEnd) {
			continue
		}
		b := buckets[order.CreatedAt.In(in.Now.Location()).Format("Mon")]
		if b == nil {
			continue
		}
		b.sales = b.sales.Add(order.TotalPrice)
		b.orders++
	}

	out := make([]SalesBucket, 0, 7)
	for _, name := range days {
		b := buckets[name]
		out = append(out, SalesBucket{
			DayName:    name,
			SalesTotal: json.Number(b.sales.String()),
			OrderCount: b.orders,
		})
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

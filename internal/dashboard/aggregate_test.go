package dashboard

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
)

var aggregateNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC) // Wednesday

func TestComputeEmptyWorld(t *testing.T) {
	snap := Compute(Inputs{Now: aggregateNow})

	if snap.Stats.Revenue != "0" {
		t.Fatalf("expected zero revenue, got %s", snap.Stats.Revenue)
	}
	if snap.Stats.TotalOrders != 0 || snap.Stats.ActiveCustomers != 0 {
		t.Fatalf("expected zero counts, got %+v", snap.Stats)
	}
	if snap.Stats.ConversionRate != "0.00" {
		t.Fatalf("expected conversion rate 0.00, got %s", snap.Stats.ConversionRate)
	}
	if len(snap.RecentOrders) != 0 {
		t.Fatalf("expected no recent orders, got %d", len(snap.RecentOrders))
	}

	wantCategories := []CategorySlice{
		{Name: "Men", Value: 400, Color: "#2D2424"},
		{Name: "Women", Value: 300, Color: "#B2A08B"},
		{Name: "Kids", Value: 200, Color: "#E0C097"},
		{Name: "Accessories", Value: 100, Color: "#5C3D2E"},
	}
	if !reflect.DeepEqual(snap.CategoryData, wantCategories) {
		t.Fatalf("unexpected placeholder categories: %+v", snap.CategoryData)
	}

	if len(snap.SalesData) != 7 {
		t.Fatalf("expected 7 sales buckets, got %d", len(snap.SalesData))
	}
	for _, bucket := range snap.SalesData {
		if bucket.SalesTotal != "0" || bucket.OrderCount != 0 {
			t.Fatalf("expected zero-filled bucket, got %+v", bucket)
		}
	}
	if snap.SalesData[6].DayName != "Wed" {
		t.Fatalf("expected newest bucket to be Wed, got %s", snap.SalesData[6].DayName)
	}
	if snap.SalesData[0].DayName != "Thu" {
		t.Fatalf("expected oldest bucket to be Thu, got %s", snap.SalesData[0].DayName)
	}
}

func TestComputeRevenueCountsOnlyPaidOrders(t *testing.T) {
	orders := []models.Order{
		paidOrder("50.00", aggregateNow.Add(-48*time.Hour)),
		paidOrder("30.25", aggregateNow.Add(-24*time.Hour)),
		unpaidOrder("1000", aggregateNow.Add(-12*time.Hour)),
	}

	snap := Compute(Inputs{Orders: orders, CustomerCount: 10, Now: aggregateNow})

	if snap.Stats.Revenue != "80.25" {
		t.Fatalf("expected revenue 80.25, got %s", snap.Stats.Revenue)
	}
	if snap.Stats.TotalOrders != 3 {
		t.Fatalf("expected 3 total orders, got %d", snap.Stats.TotalOrders)
	}
}

func TestComputeConversionRate(t *testing.T) {
	cases := []struct {
		name      string
		orders    int
		customers int64
		want      string
	}{
		{"no orders", 0, 10, "0.00"},
		{"no customers", 3, 0, "0.00"},
		{"ten customers three orders", 3, 10, "6.00"},
		{"one customer one order", 1, 1, "20.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := make([]models.Order, tc.orders)
			for i := range orders {
				orders[i] = unpaidOrder("10", aggregateNow)
			}
			snap := Compute(Inputs{Orders: orders, CustomerCount: tc.customers, Now: aggregateNow})
			if snap.Stats.ConversionRate != tc.want {
				t.Fatalf("expected rate %s, got %s", tc.want, snap.Stats.ConversionRate)
			}
		})
	}
}

func TestComputeRecentOrdersFormatting(t *testing.T) {
	guest := unpaidOrder("12.5", aggregateNow.Add(-1*time.Hour))
	guest.ID = uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")

	named := paidOrder("99.90", aggregateNow.Add(-2*time.Hour))
	named.User = &models.User{Name: "Ada Lovelace"}

	delivered := paidOrder("5", aggregateNow.Add(-3*time.Hour))
	delivered.IsDelivered = true

	snap := Compute(Inputs{
		Orders: []models.Order{delivered, named, guest},
		Now:    aggregateNow,
	})

	if len(snap.RecentOrders) != 3 {
		t.Fatalf("expected 3 recent orders, got %d", len(snap.RecentOrders))
	}

	first := snap.RecentOrders[0]
	if first.ID != "#ABCDEF" {
		t.Fatalf("expected short id #ABCDEF, got %s", first.ID)
	}
	if first.CustomerLabel != "Guest User" {
		t.Fatalf("expected guest label, got %s", first.CustomerLabel)
	}
	if first.AmountLabel != "$12.50" {
		t.Fatalf("expected $12.50, got %s", first.AmountLabel)
	}
	if first.StatusLabel != "Pending" {
		t.Fatalf("expected Pending, got %s", first.StatusLabel)
	}
	if first.TimeLabel != "12/03/2025" {
		t.Fatalf("expected day/month/year label, got %s", first.TimeLabel)
	}

	if snap.RecentOrders[1].CustomerLabel != "Ada Lovelace" {
		t.Fatalf("expected named customer, got %s", snap.RecentOrders[1].CustomerLabel)
	}
	if snap.RecentOrders[1].StatusLabel != "Processing" {
		t.Fatalf("expected Processing for paid order, got %s", snap.RecentOrders[1].StatusLabel)
	}
	if snap.RecentOrders[2].StatusLabel != "Delivered" {
		t.Fatalf("expected Delivered, got %s", snap.RecentOrders[2].StatusLabel)
	}
}

func TestComputeRecentOrdersCapsAtFourDescending(t *testing.T) {
	var orders []models.Order
	for i := 0; i < 6; i++ {
		orders = append(orders, paidOrder("10", aggregateNow.Add(-time.Duration(i)*time.Hour)))
	}

	snap := Compute(Inputs{Orders: orders, Now: aggregateNow})

	if len(snap.RecentOrders) != 4 {
		t.Fatalf("expected 4 recent orders, got %d", len(snap.RecentOrders))
	}
	if snap.Stats.TotalOrders != 6 {
		t.Fatalf("expected 6 total orders, got %d", snap.Stats.TotalOrders)
	}
}

func TestComputeCategoryGrouping(t *testing.T) {
	products := []models.Product{
		{Category: "Men"},
		{Category: "Men"},
		{Category: "Women"},
	}

	snap := Compute(Inputs{Products: products, Now: aggregateNow})

	want := []CategorySlice{
		{Name: "Men", Value: 200, Color: "#2D2424"},
		{Name: "Women", Value: 100, Color: "#B2A08B"},
	}
	if !reflect.DeepEqual(snap.CategoryData, want) {
		t.Fatalf("unexpected category data: %+v", snap.CategoryData)
	}
}

func TestComputeCategoryAliasesAndUnknowns(t *testing.T) {
	products := []models.Product{
		{Category: "electronics"},
		{Category: "clothing"},
		{Category: "Socks"},
		{Category: "men"},
	}

	snap := Compute(Inputs{Products: products, Now: aggregateNow})

	if snap.CategoryData[0].Color != "#2D2424" {
		t.Fatalf("expected electronics alias to map to palette slot 0, got %s", snap.CategoryData[0].Color)
	}
	if snap.CategoryData[1].Color != "#B2A08B" {
		t.Fatalf("expected clothing alias to map to palette slot 1, got %s", snap.CategoryData[1].Color)
	}
	// Unknown names cycle the palette by first-appearance position.
	if snap.CategoryData[2].Color != "#E0C097" {
		t.Fatalf("expected Socks at position 2 to take palette slot 2, got %s", snap.CategoryData[2].Color)
	}
	// Lowercase "men" is a distinct, unknown category; comparison is case-sensitive.
	if snap.CategoryData[3].Name != "men" || snap.CategoryData[3].Color != "#5C3D2E" {
		t.Fatalf("expected case-sensitive handling of %q, got %+v", "men", snap.CategoryData[3])
	}
}

func TestComputeSalesSeriesWindow(t *testing.T) {
	inside := paidOrder("40", aggregateNow.AddDate(0, 0, -6))
	edge := paidOrder("15.50", aggregateNow)
	tooOld := paidOrder("500", aggregateNow.AddDate(0, 0, -7))
	unpaid := unpaidOrder("99", aggregateNow)

	snap := Compute(Inputs{
		Orders: []models.Order{inside, edge, tooOld, unpaid},
		Now:    aggregateNow,
	})

	if len(snap.SalesData) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(snap.SalesData))
	}

	oldest := snap.SalesData[0]
	if oldest.DayName != "Thu" || oldest.SalesTotal != "40" || oldest.OrderCount != 1 {
		t.Fatalf("unexpected oldest bucket: %+v", oldest)
	}

	newest := snap.SalesData[6]
	if newest.DayName != "Wed" || newest.SalesTotal != "15.5" || newest.OrderCount != 1 {
		t.Fatalf("unexpected newest bucket: %+v", newest)
	}

	total := 0
	for _, bucket := range snap.SalesData {
		total += bucket.OrderCount
	}
	if total != 2 {
		t.Fatalf("expected exactly 2 qualifying orders in the window, got %d", total)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	orders := []models.Order{
		paidOrder("50.00", aggregateNow.Add(-30*time.Hour)),
		unpaidOrder("12.34", aggregateNow.Add(-2*time.Hour)),
	}
	orders[0].User = &models.User{Name: "Repeat Customer"}
	products := []models.Product{{Category: "Men"}, {Category: "Accessories"}}

	in := Inputs{Orders: orders, CustomerCount: 4, Products: products, Now: aggregateNow}

	first, err := json.Marshal(Compute(in))
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	second, err := json.Marshal(Compute(in))
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected byte-identical output for identical inputs")
	}
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	snap := Compute(Inputs{
		Orders: []models.Order{paidOrder("10", aggregateNow)},
		Now:    aggregateNow,
	})

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, field := range []string{
		`"stats"`, `"revenue"`, `"totalOrders"`, `"activeCustomers"`, `"conversionRate"`,
		`"recentOrders"`, `"id"`, `"customerLabel"`, `"amountLabel"`, `"statusLabel"`, `"timeLabel"`,
		`"categoryData"`, `"name"`, `"value"`, `"color"`,
		`"salesData"`, `"dayName"`, `"salesTotal"`, `"orderCount"`,
	} {
		if !json.Valid(raw) {
			t.Fatalf("invalid json payload")
		}
		if !strings.Contains(string(raw), field) {
			t.Fatalf("expected field %s in payload %s", field, raw)
		}
	}
	if strings.Contains(string(raw), `"revenue":"`) {
		t.Fatalf("expected revenue to serialize as a number, got %s", raw)
	}
}

func paidOrder(total string, createdAt time.Time) models.Order {
	now := createdAt
	return models.Order{
		ID:         uuid.New(),
		TotalPrice: decimal.RequireFromString(total),
		IsPaid:     true,
		PaidAt:     &now,
		CreatedAt:  createdAt,
	}
}

func unpaidOrder(total string, createdAt time.Time) models.Order {
	return models.Order{
		ID:         uuid.New(),
		TotalPrice: decimal.RequireFromString(total),
		CreatedAt:  createdAt,
	}
}

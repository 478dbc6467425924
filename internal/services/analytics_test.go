package services

import (
	"testing"
	"time"

	"olist-dashboard/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testOrders covers two months, two states, and a mix of delivered,
// delayed, and pending orders.
func testOrders() []models.OrderRecord {
	return []models.OrderRecord{
		{
			OrderID:          "o1",
			CustomerUniqueID: "u1",
			State:            "SP",
			PurchasedAt:      date(2018, 1, 1),
			DeliveredAt:      date(2018, 1, 5),
			EstimatedAt:      date(2018, 1, 10),
			TotalPayment:     100,
			Category:         "computers",
			ReviewScore:      5,
			HasReview:        true,
		},
		{
			OrderID:          "o2",
			CustomerUniqueID: "u2",
			State:            "RJ",
			PurchasedAt:      date(2018, 1, 15),
			DeliveredAt:      date(2018, 1, 13),
			EstimatedAt:      date(2018, 1, 10),
			TotalPayment:     50,
			Category:         "furniture",
			ReviewScore:      2,
			HasReview:        true,
		},
		{
			OrderID:          "o3",
			CustomerUniqueID: "u1",
			State:            "SP",
			PurchasedAt:      date(2018, 2, 1),
			TotalPayment:     75,
			Category:         "computers",
		},
	}
}

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.snapshot == nil {
		t.Error("snapshot should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	if a.snapshot.RecordCount != 3 {
		t.Errorf("RecordCount = %d, want 3", a.snapshot.RecordCount)
	}
	if a.snapshot.LastModified.IsZero() {
		t.Error("LastModified should be set after SetData")
	}
}

func TestAnalytics_Overview(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	ov := a.Overview(Filter{})

	if ov.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", ov.TotalOrders)
	}
	// u1 has two orders, so only two distinct customers.
	if ov.TotalCustomers != 2 {
		t.Errorf("TotalCustomers = %d, want 2", ov.TotalCustomers)
	}
	if ov.TotalRevenue != 225 {
		t.Errorf("TotalRevenue = %v, want 225", ov.TotalRevenue)
	}
	if ov.AvgReviewScore != 3.5 {
		t.Errorf("AvgReviewScore = %v, want 3.5", ov.AvgReviewScore)
	}
}

func TestAnalytics_Overview_MonthlyOrders(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	ov := a.Overview(Filter{})

	if len(ov.MonthlyOrders) != 2 {
		t.Fatalf("expected 2 months, got %d", len(ov.MonthlyOrders))
	}
	// Months are sorted ascending.
	if ov.MonthlyOrders[0].Month != "2018-01" || ov.MonthlyOrders[0].Orders != 2 {
		t.Errorf("first month = %+v, want 2018-01 with 2 orders", ov.MonthlyOrders[0])
	}
	if ov.MonthlyOrders[1].Month != "2018-02" || ov.MonthlyOrders[1].Orders != 1 {
		t.Errorf("second month = %+v, want 2018-02 with 1 order", ov.MonthlyOrders[1])
	}
}

func TestAnalytics_Overview_ReviewScores(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	ov := a.Overview(Filter{})

	if len(ov.ReviewScores) != 5 {
		t.Fatalf("expected 5 score buckets, got %d", len(ov.ReviewScores))
	}
	for _, rs := range ov.ReviewScores {
		switch rs.Score {
		case 2, 5:
			if rs.Count != 1 {
				t.Errorf("score %d count = %d, want 1", rs.Score, rs.Count)
			}
		default:
			if rs.Count != 0 {
				t.Errorf("score %d count = %d, want 0", rs.Score, rs.Count)
			}
		}
	}
}

func TestAnalytics_Overview_TopCategories(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	ov := a.Overview(Filter{})

	if len(ov.TopCategories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(ov.TopCategories))
	}
	// Sorted by revenue descending: computers 175, furniture 50.
	if ov.TopCategories[0].Category != "computers" || ov.TopCategories[0].Revenue != 175 {
		t.Errorf("top category = %+v, want computers with revenue 175", ov.TopCategories[0])
	}
	if ov.TopCategories[0].Orders != 2 {
		t.Errorf("top category orders = %d, want 2", ov.TopCategories[0].Orders)
	}
}

func TestAnalytics_Overview_CategoryLimit(t *testing.T) {
	orders := make([]models.OrderRecord, 15)
	for i := range orders {
		orders[i] = models.OrderRecord{
			CustomerUniqueID: "u1",
			PurchasedAt:      date(2018, 1, 1+i),
			TotalPayment:     float64(i + 1),
			Category:         "cat" + string(rune('a'+i)),
		}
	}

	a := NewAnalytics()
	a.SetData(orders, nil)

	ov := a.Overview(Filter{})
	if len(ov.TopCategories) != topCategoryLimit {
		t.Errorf("expected category list capped at %d, got %d", topCategoryLimit, len(ov.TopCategories))
	}
}

func TestAnalytics_Delivery(t *testing.T) {
	orders := []models.OrderRecord{
		// On time, 4 delivery days, satisfied review.
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 5), EstimatedAt: date(2018, 1, 10), ReviewScore: 5, HasReview: true},
		// 3 days late, unsatisfied review.
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 13), EstimatedAt: date(2018, 1, 10), ReviewScore: 2, HasReview: true},
		// 10 days late.
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 20), EstimatedAt: date(2018, 1, 10), ReviewScore: 1, HasReview: true},
		// 20 days late, no review.
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 30), EstimatedAt: date(2018, 1, 10)},
		// Not delivered, excluded entirely.
		{PurchasedAt: date(2018, 1, 1), EstimatedAt: date(2018, 1, 10)},
	}

	a := NewAnalytics()
	a.SetData(orders, nil)

	d := a.Delivery(Filter{})

	// (4 + 12 + 19 + 29) / 4 delivered orders.
	if d.AvgDeliveryDays != 16 {
		t.Errorf("AvgDeliveryDays = %v, want 16", d.AvgDeliveryDays)
	}
	if d.OnTimeRate != 25 {
		t.Errorf("OnTimeRate = %v, want 25", d.OnTimeRate)
	}
	if d.DelayedOrders != 3 {
		t.Errorf("DelayedOrders = %d, want 3", d.DelayedOrders)
	}
	if d.OnTimeReview != 5 {
		t.Errorf("OnTimeReview = %v, want 5", d.OnTimeReview)
	}
	if d.DelayedReview != 1.5 {
		t.Errorf("DelayedReview = %v, want 1.5", d.DelayedReview)
	}
}

func TestAnalytics_Delivery_Buckets(t *testing.T) {
	orders := []models.OrderRecord{
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 5), EstimatedAt: date(2018, 1, 10), ReviewScore: 5, HasReview: true},
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 13), EstimatedAt: date(2018, 1, 10), ReviewScore: 2, HasReview: true},
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 20), EstimatedAt: date(2018, 1, 10), ReviewScore: 1, HasReview: true},
		{PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 30), EstimatedAt: date(2018, 1, 10)},
	}

	a := NewAnalytics()
	a.SetData(orders, nil)

	d := a.Delivery(Filter{})

	if len(d.DelayBuckets) != len(DelayBucketLabels) {
		t.Fatalf("expected %d buckets, got %d", len(DelayBucketLabels), len(d.DelayBuckets))
	}
	for i, b := range d.DelayBuckets {
		if b.Label != DelayBucketLabels[i] {
			t.Errorf("bucket %d label = %q, want %q", i, b.Label, DelayBucketLabels[i])
		}
		if b.Orders != 1 {
			t.Errorf("bucket %q orders = %d, want 1", b.Label, b.Orders)
		}
	}

	// On-time order scored 5, so the bucket is fully satisfied.
	if d.DelayBuckets[0].SatisfiedRate != 100 || d.DelayBuckets[0].UnsatisfiedRate != 0 {
		t.Errorf("on-time bucket rates = %v/%v, want 100/0",
			d.DelayBuckets[0].SatisfiedRate, d.DelayBuckets[0].UnsatisfiedRate)
	}
	// 1-7 days late scored 2, fully unsatisfied.
	if d.DelayBuckets[1].UnsatisfiedRate != 100 {
		t.Errorf("delayed bucket unsatisfied = %v, want 100", d.DelayBuckets[1].UnsatisfiedRate)
	}
	// >14 days bucket has no reviews, rates stay zero.
	if d.DelayBuckets[3].SatisfiedRate != 0 || d.DelayBuckets[3].UnsatisfiedRate != 0 {
		t.Errorf("unreviewed bucket rates should be 0, got %v/%v",
			d.DelayBuckets[3].SatisfiedRate, d.DelayBuckets[3].UnsatisfiedRate)
	}
}

func TestDelayBucketIndex(t *testing.T) {
	tests := []struct {
		delay int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{15, 3},
		{60, 3},
	}

	for _, tt := range tests {
		if got := delayBucketIndex(tt.delay); got != tt.want {
			t.Errorf("delayBucketIndex(%d) = %d, want %d", tt.delay, got, tt.want)
		}
	}
}

func TestFilter_Match(t *testing.T) {
	order := models.OrderRecord{
		PurchasedAt: date(2018, 1, 15),
		State:       "SP",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches all", Filter{}, true},
		{"inside range", Filter{From: date(2018, 1, 1), To: date(2018, 1, 31)}, true},
		{"from boundary inclusive", Filter{From: date(2018, 1, 15)}, true},
		{"to boundary inclusive", Filter{To: date(2018, 1, 15)}, true},
		{"before range", Filter{From: date(2018, 2, 1)}, false},
		{"after range", Filter{To: date(2018, 1, 14)}, false},
		{"matching state", Filter{State: "SP"}, true},
		{"other state", Filter{State: "RJ"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(order); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalytics_FilteredOverview(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	// Only the two January orders.
	ov := a.Overview(Filter{From: date(2018, 1, 1), To: date(2018, 1, 31)})
	if ov.TotalOrders != 2 {
		t.Errorf("filtered TotalOrders = %d, want 2", ov.TotalOrders)
	}
	if ov.TotalRevenue != 150 {
		t.Errorf("filtered TotalRevenue = %v, want 150", ov.TotalRevenue)
	}

	// Only SP orders.
	ov = a.Overview(Filter{State: "SP"})
	if ov.TotalOrders != 2 {
		t.Errorf("state filtered TotalOrders = %d, want 2", ov.TotalOrders)
	}
	if ov.TotalCustomers != 1 {
		t.Errorf("state filtered TotalCustomers = %d, want 1", ov.TotalCustomers)
	}
}

func TestAnalytics_DateRange(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	min, max := a.DateRange()
	if !min.Equal(date(2018, 1, 1)) {
		t.Errorf("min = %v, want 2018-01-01", min)
	}
	if !max.Equal(date(2018, 2, 1)) {
		t.Errorf("max = %v, want 2018-02-01", max)
	}
}

func TestAnalytics_States(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	states := a.States()
	if len(states) != 2 || states[0] != "RJ" || states[1] != "SP" {
		t.Errorf("States() = %v, want [RJ SP]", states)
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	stats := a.Stats()
	if stats["record_count"] != int64(3) {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
	if stats["months"] != 2 {
		t.Errorf("months = %v, want 2", stats["months"])
	}
}

func TestAnalytics_EmptyData(t *testing.T) {
	a := NewAnalytics()

	ov := a.Overview(Filter{})
	if ov.TotalOrders != 0 || ov.TotalRevenue != 0 {
		t.Error("overview of empty data should be zero")
	}

	d := a.Delivery(Filter{})
	if d.AvgDeliveryDays != 0 || d.OnTimeRate != 0 {
		t.Error("delivery report of empty data should be zero")
	}

	rfm := a.RFM(Filter{})
	if len(rfm.Segments) != 0 {
		t.Errorf("RFM segments of empty data = %d, want 0", len(rfm.Segments))
	}

	geo := a.Geography(Filter{})
	if len(geo.States) != 0 {
		t.Errorf("geography states of empty data = %d, want 0", len(geo.States))
	}

	min, max := a.DateRange()
	if !min.IsZero() || !max.IsZero() {
		t.Error("date range of empty data should be zero times")
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := NewAnalytics()
	a.SetData(testOrders(), nil)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_ = a.Overview(Filter{})
			_ = a.Delivery(Filter{State: "SP"})
			_ = a.RFM(Filter{})
			_ = a.Geography(Filter{})
			_ = a.States()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func BenchmarkAnalytics_FilteredOverview(b *testing.B) {
	orders := make([]models.OrderRecord, 10000)
	for i := range orders {
		orders[i] = models.OrderRecord{
			CustomerUniqueID: "u" + string(rune('a'+i%26)),
			State:            []string{"SP", "RJ", "MG"}[i%3],
			PurchasedAt:      date(2018, time.Month(1+i%12), 1+i%28),
			TotalPayment:     float64(i%200) + 10,
			Category:         "cat" + string(rune('a'+i%20)),
		}
	}

	a := NewAnalytics()
	a.SetData(orders, nil)
	filter := Filter{State: "SP"}

	b.ResetTimer()
	for b.Loop() {
		_ = a.Overview(filter)
	}
}

package services

import (
	"testing"

	"olist-dashboard/internal/models"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 5, "Champions"},
		{4, 4, 4, "Champions"},
		{4, 4, 3, "Loyal Customers"},
		{3, 5, 1, "Loyal Customers"},
		{5, 3, 2, "Potential Loyalist"},
		{4, 2, 1, "Potential Loyalist"},
		{5, 1, 5, "Recent Customers"},
		{4, 1, 1, "Recent Customers"},
		{2, 3, 1, "At Risk"},
		{1, 5, 2, "At Risk"},
		{2, 1, 4, "Can't Lose Them"},
		{1, 2, 5, "Can't Lose Them"},
		{2, 2, 2, "Hibernating"},
		{1, 1, 1, "Hibernating"},
		{3, 2, 3, "Need Attention"},
		{3, 1, 1, "Need Attention"},
	}

	for _, tt := range tests {
		if got := segment(tt.r, tt.f, tt.m); got != tt.want {
			t.Errorf("segment(%d, %d, %d) = %q, want %q", tt.r, tt.f, tt.m, got, tt.want)
		}
	}
}

func TestQuintiles(t *testing.T) {
	scores := []models.RFMScore{
		{Monetary: 10},
		{Monetary: 50},
		{Monetary: 30},
		{Monetary: 20},
		{Monetary: 40},
	}

	got := quintiles(scores, func(s models.RFMScore) float64 { return s.Monetary })

	// Ascending value order: 10, 20, 30, 40, 50 map to 1..5.
	want := []int{1, 5, 3, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("quintile[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuintiles_Ties(t *testing.T) {
	// All values equal: ranks follow input position, so the quintiles
	// still split evenly instead of collapsing into one bucket.
	scores := make([]models.RFMScore, 5)
	got := quintiles(scores, func(s models.RFMScore) float64 { return s.Monetary })

	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tied quintile[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuintiles_SmallPopulation(t *testing.T) {
	scores := []models.RFMScore{{Monetary: 5}, {Monetary: 10}}
	got := quintiles(scores, func(s models.RFMScore) float64 { return s.Monetary })

	if got[0] != 1 || got[1] != 3 {
		t.Errorf("quintiles of 2 customers = %v, want [1 3]", got)
	}
}

func TestScoreCustomers(t *testing.T) {
	orders := []models.OrderRecord{
		{CustomerUniqueID: "c1", PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 5), TotalPayment: 100},
		{CustomerUniqueID: "c1", PurchasedAt: date(2018, 3, 1), DeliveredAt: date(2018, 3, 8), TotalPayment: 100},
		{CustomerUniqueID: "c2", PurchasedAt: date(2018, 2, 1), DeliveredAt: date(2018, 2, 6), TotalPayment: 50},
		// Pending order must not contribute to any score.
		{CustomerUniqueID: "c3", PurchasedAt: date(2018, 2, 15), TotalPayment: 999},
	}

	scores := ScoreCustomers(orders)
	if len(scores) != 2 {
		t.Fatalf("expected 2 scored customers, got %d", len(scores))
	}

	// Sorted by customer ID.
	c1, c2 := scores[0], scores[1]
	if c1.CustomerID != "c1" || c2.CustomerID != "c2" {
		t.Fatalf("unexpected customer order: %q, %q", c1.CustomerID, c2.CustomerID)
	}

	// Reference date is one day past the newest purchase (2018-03-02).
	if c1.Recency != 1 {
		t.Errorf("c1 recency = %d, want 1", c1.Recency)
	}
	if c2.Recency != 29 {
		t.Errorf("c2 recency = %d, want 29", c2.Recency)
	}

	if c1.Frequency != 2 || c1.Monetary != 200 {
		t.Errorf("c1 frequency/monetary = %d/%v, want 2/200", c1.Frequency, c1.Monetary)
	}
	if c2.Frequency != 1 || c2.Monetary != 50 {
		t.Errorf("c2 frequency/monetary = %d/%v, want 1/50", c2.Frequency, c2.Monetary)
	}

	// With two customers the quintiles are 1 and 3; the recency score is
	// inverted so the most recent customer scores highest.
	if c1.R != 5 || c1.F != 3 || c1.M != 3 {
		t.Errorf("c1 scores = %d/%d/%d, want 5/3/3", c1.R, c1.F, c1.M)
	}
	if c2.R != 3 || c2.F != 1 || c2.M != 1 {
		t.Errorf("c2 scores = %d/%d/%d, want 3/1/1", c2.R, c2.F, c2.M)
	}

	if c1.Segment != "Potential Loyalist" {
		t.Errorf("c1 segment = %q, want Potential Loyalist", c1.Segment)
	}
	if c2.Segment != "Need Attention" {
		t.Errorf("c2 segment = %q, want Need Attention", c2.Segment)
	}
}

func TestScoreCustomers_NoDeliveredOrders(t *testing.T) {
	orders := []models.OrderRecord{
		{CustomerUniqueID: "c1", PurchasedAt: date(2018, 1, 1), TotalPayment: 100},
	}

	if scores := ScoreCustomers(orders); scores != nil {
		t.Errorf("expected nil scores without delivered orders, got %d", len(scores))
	}
}

func TestComputeRFM(t *testing.T) {
	orders := []models.OrderRecord{
		{CustomerUniqueID: "c1", PurchasedAt: date(2018, 1, 1), DeliveredAt: date(2018, 1, 5), TotalPayment: 100},
		{CustomerUniqueID: "c1", PurchasedAt: date(2018, 3, 1), DeliveredAt: date(2018, 3, 8), TotalPayment: 100},
		{CustomerUniqueID: "c2", PurchasedAt: date(2018, 2, 1), DeliveredAt: date(2018, 2, 6), TotalPayment: 50},
	}

	report := computeRFM(orders)

	if report.AvgMonetary != 125 {
		t.Errorf("AvgMonetary = %v, want 125", report.AvgMonetary)
	}
	if report.AvgFrequency != 1.5 {
		t.Errorf("AvgFrequency = %v, want 1.5", report.AvgFrequency)
	}

	if len(report.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(report.Segments))
	}
	// Canonical segment order puts Potential Loyalist before Need
	// Attention.
	if report.Segments[0].Segment != "Potential Loyalist" {
		t.Errorf("first segment = %q, want Potential Loyalist", report.Segments[0].Segment)
	}
	if report.Segments[1].Segment != "Need Attention" {
		t.Errorf("second segment = %q, want Need Attention", report.Segments[1].Segment)
	}

	pl := report.Segments[0]
	if pl.Customers != 1 || pl.Revenue != 200 || pl.AvgFrequency != 2 {
		t.Errorf("Potential Loyalist summary = %+v", pl)
	}
}

func TestComputeRFM_Empty(t *testing.T) {
	report := computeRFM(nil)
	if report.Segments == nil {
		t.Error("empty report should carry an empty segment slice, not nil")
	}
	if report.Champions != 0 || report.AtRisk != 0 {
		t.Error("empty report counters should be zero")
	}
}

func TestSegmentRank(t *testing.T) {
	if segmentRank("Champions") != 0 {
		t.Error("Champions should rank first")
	}
	if segmentRank("unknown") != len(segmentOrder) {
		t.Error("unknown segments should rank last")
	}

	prev := -1
	for _, name := range segmentOrder {
		r := segmentRank(name)
		if r <= prev {
			t.Errorf("segment %q rank %d not increasing", name, r)
		}
		prev = r
	}
}

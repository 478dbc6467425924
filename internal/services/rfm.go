package services

import (
	"slices"
	"sort"
	"strings"
	"time"

	"olist-dashboard/internal/models"
)

// Canonical segment order for reports and exports.
var segmentOrder = []string{
	"Champions",
	"Loyal Customers",
	"Potential Loyalist",
	"Recent Customers",
	"At Risk",
	"Can't Lose Them",
	"Hibernating",
	"Need Attention",
}

// computeRFM scores customers on recency, frequency, and monetary value
// over their delivered orders. Quintile scores are rank-based: ties are
// broken by first occurrence, so every quintile holds an equal share of
// customers even on heavily tied metrics.
func computeRFM(orders []models.OrderRecord) models.RFMReport {
	scores := ScoreCustomers(orders)

	report := models.RFMReport{}
	if len(scores) == 0 {
		report.Segments = []models.SegmentSummary{}
		return report
	}

	type segAgg struct {
		customers int
		revenue   float64
		recency   int
		frequency int
		monetary  float64
	}
	segments := make(map[string]*segAgg)

	var monetarySum float64
	var frequencySum int
	for _, s := range scores {
		monetarySum += s.Monetary
		frequencySum += s.Frequency

		agg := segments[s.Segment]
		if agg == nil {
			agg = &segAgg{}
			segments[s.Segment] = agg
		}
		agg.customers++
		agg.revenue += s.Monetary
		agg.recency += s.Recency
		agg.frequency += s.Frequency
		agg.monetary += s.Monetary

		switch s.Segment {
		case "Champions":
			report.Champions++
		case "At Risk":
			report.AtRisk++
		}
	}

	n := float64(len(scores))
	report.AvgMonetary = monetarySum / n
	report.AvgFrequency = float64(frequencySum) / n

	report.Segments = make([]models.SegmentSummary, 0, len(segments))
	for name, agg := range segments {
		c := float64(agg.customers)
		report.Segments = append(report.Segments, models.SegmentSummary{
			Segment:      name,
			Customers:    agg.customers,
			Revenue:      agg.revenue,
			AvgRecency:   float64(agg.recency) / c,
			AvgFrequency: float64(agg.frequency) / c,
			AvgMonetary:  agg.monetary / c,
		})
	}
	slices.SortFunc(report.Segments, func(a, b models.SegmentSummary) int {
		return segmentRank(a.Segment) - segmentRank(b.Segment)
	})

	return report
}

func segmentRank(name string) int {
	for i, s := range segmentOrder {
		if s == name {
			return i
		}
	}
	return len(segmentOrder)
}

// ScoreCustomers returns the per-customer RFM metrics, quintile scores,
// and segment assignments. The reference date is one day past the newest
// purchase in the set.
func ScoreCustomers(orders []models.OrderRecord) []models.RFMScore {
	type customerAgg struct {
		last     time.Time
		orders   int
		monetary float64
	}
	byCustomer := make(map[string]*customerAgg)

	var newest time.Time
	for _, o := range orders {
		if !o.Delivered() {
			continue
		}
		c := byCustomer[o.CustomerUniqueID]
		if c == nil {
			c = &customerAgg{}
			byCustomer[o.CustomerUniqueID] = c
		}
		c.orders++
		c.monetary += o.TotalPayment
		if o.PurchasedAt.After(c.last) {
			c.last = o.PurchasedAt
		}
		if o.PurchasedAt.After(newest) {
			newest = o.PurchasedAt
		}
	}
	if len(byCustomer) == 0 {
		return nil
	}

	reference := newest.AddDate(0, 0, 1)

	scores := make([]models.RFMScore, 0, len(byCustomer))
	for id, c := range byCustomer {
		scores = append(scores, models.RFMScore{
			CustomerID: id,
			Recency:    int(reference.Sub(c.last).Hours() / 24),
			Frequency:  c.orders,
			Monetary:   c.monetary,
		})
	}
	// Deterministic base order before ranking.
	slices.SortFunc(scores, func(a, b models.RFMScore) int {
		return strings.Compare(a.CustomerID, b.CustomerID)
	})

	recency := quintiles(scores, func(s models.RFMScore) float64 { return float64(s.Recency) })
	frequency := quintiles(scores, func(s models.RFMScore) float64 { return float64(s.Frequency) })
	monetary := quintiles(scores, func(s models.RFMScore) float64 { return s.Monetary })

	for i := range scores {
		scores[i].R = 6 - recency[i] // most recent = lowest recency = score 5
		scores[i].F = frequency[i]
		scores[i].M = monetary[i]
		scores[i].Segment = segment(scores[i].R, scores[i].F, scores[i].M)
	}
	return scores
}

// quintiles assigns each element a score 1..5 by ascending rank of the
// keyed value, first occurrence winning ties.
func quintiles(scores []models.RFMScore, key func(models.RFMScore) float64) []int {
	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return key(scores[idx[a]]) < key(scores[idx[b]])
	})

	out := make([]int, n)
	for rank, i := range idx {
		out[i] = rank*5/n + 1
	}
	return out
}

// segment applies the classic RFM segment rules; the first matching rule
// wins.
func segment(r, f, m int) string {
	switch {
	case r >= 4 && f >= 4 && m >= 4:
		return "Champions"
	case r >= 3 && f >= 4:
		return "Loyal Customers"
	case r >= 4 && f >= 2 && f <= 3:
		return "Potential Loyalist"
	case r >= 4 && f == 1:
		return "Recent Customers"
	case r <= 2 && f >= 3:
		return "At Risk"
	case r <= 2 && m >= 4:
		return "Can't Lose Them"
	case r <= 2 && f <= 2:
		return "Hibernating"
	default:
		return "Need Attention"
	}
}

package services

import (
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/models"
)

const (
	topCategoryLimit = 10
	satisfiedScore   = 4
	unsatisfiedScore = 2
)

// DelayBucketLabels is the fixed bucket order for delivery delay reports.
var DelayBucketLabels = []string{"On Time/Early", "1-7 days late", "8-14 days late", ">14 days late"}

// Filter narrows analytics to a purchase date range and/or customer state.
// The zero value selects everything.
type Filter struct {
	From  time.Time
	To    time.Time
	State string
}

func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && f.State == ""
}

// Match reports whether an order falls inside the filter. The date range
// is inclusive on both ends.
func (f Filter) Match(o models.OrderRecord) bool {
	if !f.From.IsZero() && o.PurchasedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.PurchasedAt.After(f.To) {
		return false
	}
	if f.State != "" && o.State != f.State {
		return false
	}
	return true
}

// Snapshot holds the precomputed reports for the unfiltered dataset.
type Snapshot struct {
	Overview     models.Overview
	Delivery     models.DeliveryReport
	RFM          models.RFMReport
	Geography    models.GeographyReport
	RecordCount  int64
	LastModified time.Time
}

// Analytics answers dashboard queries from an in-memory order set. The
// unfiltered snapshot is computed once per load; filtered queries scan
// the order records per request.
type Analytics struct {
	mu        sync.RWMutex
	orders    []models.OrderRecord
	stateInfo map[string]models.StateInfo
	loadStats dataset.LoadStats
	snapshot  *Snapshot
	logger    *slog.Logger
}

func NewAnalytics() *Analytics {
	return &Analytics{
		snapshot: &Snapshot{},
		logger:   slog.Default(),
	}
}

// SetResult installs a loaded dataset and precomputes the snapshot.
func (a *Analytics) SetResult(result *dataset.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.orders = result.Orders
	a.stateInfo = result.StateInfo
	a.loadStats = result.Stats
	a.recompute()
}

// SetData installs bare order records, for tests and tools that bypass
// the loader.
func (a *Analytics) SetData(orders []models.OrderRecord, stateInfo map[string]models.StateInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.orders = orders
	a.stateInfo = stateInfo
	a.recompute()
}

func (a *Analytics) recompute() {
	start := time.Now()
	a.snapshot = &Snapshot{
		Overview:     computeOverview(a.orders),
		Delivery:     computeDelivery(a.orders),
		RFM:          computeRFM(a.orders),
		Geography:    computeGeography(a.orders, a.stateInfo),
		RecordCount:  int64(len(a.orders)),
		LastModified: time.Now(),
	}
	a.logger.Info("analytics snapshot computed",
		"orders", len(a.orders),
		"duration", time.Since(start),
	)
}

func (a *Analytics) filtered(f Filter) []models.OrderRecord {
	out := make([]models.OrderRecord, 0, len(a.orders))
	for _, o := range a.orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// Overview returns the business overview for the filter.
func (a *Analytics) Overview(f Filter) models.Overview {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if f.IsZero() {
		return a.snapshot.Overview
	}
	return computeOverview(a.filtered(f))
}

// Delivery returns the delivery performance report for the filter.
func (a *Analytics) Delivery(f Filter) models.DeliveryReport {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if f.IsZero() {
		return a.snapshot.Delivery
	}
	return computeDelivery(a.filtered(f))
}

// RFM returns the customer segmentation report for the filter.
func (a *Analytics) RFM(f Filter) models.RFMReport {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if f.IsZero() {
		return a.snapshot.RFM
	}
	return computeRFM(a.filtered(f))
}

// Geography returns the state revenue distribution for the filter.
func (a *Analytics) Geography(f Filter) models.GeographyReport {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if f.IsZero() {
		return a.snapshot.Geography
	}
	return computeGeography(a.filtered(f), a.stateInfo)
}

// DateRange returns the purchase timestamp bounds of the loaded dataset.
// Orders are sorted by purchase time at load.
func (a *Analytics) DateRange() (min, max time.Time) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.orders) == 0 {
		return time.Time{}, time.Time{}
	}
	return a.orders[0].PurchasedAt, a.orders[len(a.orders)-1].PurchasedAt
}

// States returns the distinct customer states, sorted.
func (a *Analytics) States() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	seen := make(map[string]bool)
	for _, o := range a.orders {
		if o.State != "" {
			seen[o.State] = true
		}
	}
	states := make([]string, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Stats reports loader and snapshot accounting for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   a.snapshot.RecordCount,
		"last_processed": a.snapshot.LastModified,
		"states":         len(a.snapshot.Geography.States),
		"segments":       len(a.snapshot.RFM.Segments),
		"months":         len(a.snapshot.Overview.MonthlyOrders),
		"table_rows":     a.loadStats.TableRows,
		"skipped_rows":   a.loadStats.SkippedRows,
		"dropped_orders": a.loadStats.NoCustomer + a.loadStats.NoPayment,
	}
}

func computeOverview(orders []models.OrderRecord) models.Overview {
	ov := models.Overview{}

	customers := make(map[string]bool)
	monthly := make(map[string]int)
	scores := [6]int{}
	type catAgg struct {
		revenue float64
		orders  int
	}
	categories := make(map[string]*catAgg)

	var reviewSum, reviewed int
	for _, o := range orders {
		ov.TotalOrders++
		ov.TotalRevenue += o.TotalPayment
		customers[o.CustomerUniqueID] = true
		monthly[o.PurchasedAt.Format("2006-01")]++

		if o.HasReview {
			scores[o.ReviewScore]++
			reviewSum += o.ReviewScore
			reviewed++
		}
		if o.Category != "" {
			c := categories[o.Category]
			if c == nil {
				c = &catAgg{}
				categories[o.Category] = c
			}
			c.revenue += o.TotalPayment
			c.orders++
		}
	}

	ov.TotalCustomers = len(customers)
	if reviewed > 0 {
		ov.AvgReviewScore = float64(reviewSum) / float64(reviewed)
	}

	ov.MonthlyOrders = make([]models.MonthlyOrders, 0, len(monthly))
	for month, n := range monthly {
		ov.MonthlyOrders = append(ov.MonthlyOrders, models.MonthlyOrders{Month: month, Orders: n})
	}
	slices.SortFunc(ov.MonthlyOrders, func(a, b models.MonthlyOrders) int {
		return strings.Compare(a.Month, b.Month)
	})

	ov.ReviewScores = make([]models.ReviewScoreCount, 0, 5)
	for score := 1; score <= 5; score++ {
		ov.ReviewScores = append(ov.ReviewScores, models.ReviewScoreCount{Score: score, Count: scores[score]})
	}

	ov.TopCategories = make([]models.CategoryRevenue, 0, len(categories))
	for name, c := range categories {
		ov.TopCategories = append(ov.TopCategories, models.CategoryRevenue{
			Category: name,
			Revenue:  c.revenue,
			Orders:   c.orders,
		})
	}
	slices.SortFunc(ov.TopCategories, func(a, b models.CategoryRevenue) int {
		if a.Revenue != b.Revenue {
			if a.Revenue > b.Revenue {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Category, b.Category)
	})
	if len(ov.TopCategories) > topCategoryLimit {
		ov.TopCategories = ov.TopCategories[:topCategoryLimit]
	}

	return ov
}

func computeDelivery(orders []models.OrderRecord) models.DeliveryReport {
	report := models.DeliveryReport{}

	type bucketAgg struct {
		orders      int
		reviewed    int
		satisfied   int
		unsatisfied int
	}
	buckets := make([]bucketAgg, len(DelayBucketLabels))

	var delivered int
	var daysSum float64
	var onTime int
	var onTimeScore, onTimeReviewed int
	var delayedScore, delayedReviewed int

	for _, o := range orders {
		if !o.Delivered() {
			continue
		}
		delivered++
		daysSum += o.DeliveryDays()

		delay := o.DelayDays()
		idx := delayBucketIndex(delay)
		buckets[idx].orders++
		if o.HasReview {
			buckets[idx].reviewed++
			if o.ReviewScore >= satisfiedScore {
				buckets[idx].satisfied++
			}
			if o.ReviewScore <= unsatisfiedScore {
				buckets[idx].unsatisfied++
			}
		}

		if delay <= 0 {
			onTime++
			if o.HasReview {
				onTimeScore += o.ReviewScore
				onTimeReviewed++
			}
		} else {
			report.DelayedOrders++
			if o.HasReview {
				delayedScore += o.ReviewScore
				delayedReviewed++
			}
		}
	}

	if delivered > 0 {
		report.AvgDeliveryDays = daysSum / float64(delivered)
		report.OnTimeRate = float64(onTime) / float64(delivered) * 100
	}
	if onTimeReviewed > 0 {
		report.OnTimeReview = float64(onTimeScore) / float64(onTimeReviewed)
	}
	if delayedReviewed > 0 {
		report.DelayedReview = float64(delayedScore) / float64(delayedReviewed)
	}

	report.DelayBuckets = make([]models.DelayBucket, len(DelayBucketLabels))
	for i, label := range DelayBucketLabels {
		b := models.DelayBucket{Label: label, Orders: buckets[i].orders}
		if buckets[i].reviewed > 0 {
			b.SatisfiedRate = float64(buckets[i].satisfied) / float64(buckets[i].reviewed) * 100
			b.UnsatisfiedRate = float64(buckets[i].unsatisfied) / float64(buckets[i].reviewed) * 100
		}
		report.DelayBuckets[i] = b
	}

	return report
}

func delayBucketIndex(delay int) int {
	switch {
	case delay <= 0:
		return 0
	case delay <= 7:
		return 1
	case delay <= 14:
		return 2
	default:
		return 3
	}
}

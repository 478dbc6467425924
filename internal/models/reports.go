package models

// Derived report types returned by the analytics service and serialized
// to the API, SSE signals, and exports.

type Overview struct {
	TotalOrders    int                `json:"total_orders"`
	TotalCustomers int                `json:"total_customers"`
	TotalRevenue   float64            `json:"total_revenue"`
	AvgReviewScore float64            `json:"avg_review_score"`
	MonthlyOrders  []MonthlyOrders    `json:"monthly_orders"`
	ReviewScores   []ReviewScoreCount `json:"review_scores"`
	TopCategories  []CategoryRevenue  `json:"top_categories"`
}

type MonthlyOrders struct {
	Month  string `json:"month"`
	Orders int    `json:"orders"`
}

type ReviewScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

type DeliveryReport struct {
	AvgDeliveryDays float64       `json:"avg_delivery_days"`
	OnTimeRate      float64       `json:"on_time_rate"`
	DelayedOrders   int           `json:"delayed_orders"`
	OnTimeReview    float64       `json:"on_time_review"`
	DelayedReview   float64       `json:"delayed_review"`
	DelayBuckets    []DelayBucket `json:"delay_buckets"`
}

type DelayBucket struct {
	Label           string  `json:"label"`
	Orders          int     `json:"orders"`
	SatisfiedRate   float64 `json:"satisfied_rate"`
	UnsatisfiedRate float64 `json:"unsatisfied_rate"`
}

type RFMReport struct {
	Champions    int              `json:"champions"`
	AtRisk       int              `json:"at_risk"`
	AvgMonetary  float64          `json:"avg_monetary"`
	AvgFrequency float64          `json:"avg_frequency"`
	Segments     []SegmentSummary `json:"segments"`
}

type SegmentSummary struct {
	Segment      string  `json:"segment"`
	Customers    int     `json:"customers"`
	Revenue      float64 `json:"revenue"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
}

// RFMScore holds the per-customer metrics and quintile scores behind a
// segment assignment.
type RFMScore struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	R          int     `json:"r"`
	F          int     `json:"f"`
	M          int     `json:"m"`
	Segment    string  `json:"segment"`
}

type GeographyReport struct {
	TopState    string         `json:"top_state"`
	TopRevenue  float64        `json:"top_revenue"`
	MarketShare float64        `json:"market_share"`
	Top5Share   float64        `json:"top5_share"`
	States      []StateSummary `json:"states"`
}

type StateSummary struct {
	State              string  `json:"state"`
	Customers          int     `json:"customers"`
	Orders             int     `json:"orders"`
	Sellers            int     `json:"sellers"`
	Revenue            float64 `json:"revenue"`
	RevenuePerCustomer float64 `json:"revenue_per_customer"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
}

// StateInfo is side data joined onto state rollups: seller presence and
// the centroid of the state's geolocation points.
type StateInfo struct {
	Sellers int     `json:"sellers"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

package models

import "time"

// OrderRecord is one denormalized row per order, produced by joining the
// raw dataset tables. All analytics run over slices of these.
type OrderRecord struct {
	OrderID          string
	CustomerID       string
	CustomerUniqueID string
	State            string
	City             string
	Status           string
	PurchasedAt      time.Time
	DeliveredAt      time.Time
	EstimatedAt      time.Time
	TotalPayment     float64
	FreightValue     float64
	Items            int
	Category         string
	ReviewScore      int
	HasReview        bool
}

// Delivered reports whether the order reached the customer.
func (o OrderRecord) Delivered() bool {
	return !o.DeliveredAt.IsZero()
}

// DeliveryDays is the elapsed time from purchase to delivery in days.
func (o OrderRecord) DeliveryDays() float64 {
	if !o.Delivered() {
		return 0
	}
	return o.DeliveredAt.Sub(o.PurchasedAt).Hours() / 24
}

// DelayDays is the number of whole days the delivery missed the estimate
// by. Zero or negative means on time.
func (o OrderRecord) DelayDays() int {
	if !o.Delivered() || o.EstimatedAt.IsZero() {
		return 0
	}
	diff := o.DeliveredAt.Sub(o.EstimatedAt).Hours() / 24
	if diff <= 0 {
		return int(diff)
	}
	days := int(diff)
	if diff > float64(days) {
		days++
	}
	return days
}

package models

import "time"

// Raw dataset rows, one struct per source table. Only the columns the
// analytics consume are kept.

type Order struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt time.Time
	DeliveredAt time.Time
	EstimatedAt time.Time
}

type OrderItem struct {
	OrderID   string
	ProductID string
	SellerID  string
	Price     float64
	Freight   float64
}

type Payment struct {
	OrderID string
	Value   float64
}

type Review struct {
	OrderID   string
	Score     int
	CreatedAt time.Time
}

type Customer struct {
	CustomerID string
	UniqueID   string
	City       string
	State      string
}

type Seller struct {
	SellerID string
	City     string
	State    string
}

type Product struct {
	ProductID string
	Category  string
}

type Geolocation struct {
	ZipPrefix string
	Lat       float64
	Lng       float64
	City      string
	State     string
}

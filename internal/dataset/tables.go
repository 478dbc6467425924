package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"olist-dashboard/internal/models"
)

// Source table file names as shipped with the dataset.
const (
	ordersFile       = "olist_orders_dataset.csv"
	itemsFile        = "olist_order_items_dataset.csv"
	paymentsFile     = "olist_order_payments_dataset.csv"
	reviewsFile      = "olist_order_reviews_dataset.csv"
	customersFile    = "olist_customers_dataset.csv"
	sellersFile      = "olist_sellers_dataset.csv"
	productsFile     = "olist_products_dataset.csv"
	geolocationFile  = "olist_geolocation_dataset.csv"
	translationsFile = "product_category_name_translation.csv"
)

const timestampLayout = "2006-01-02 15:04:05"

// header maps column names to their positions in a CSV file.
type header map[string]int

func (h header) get(rec []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func (h header) float(rec []string, col string) (float64, error) {
	return strconv.ParseFloat(h.get(rec, col), 64)
}

func (h header) int(rec []string, col string) (int, error) {
	return strconv.Atoi(h.get(rec, col))
}

// time parses an optional timestamp column. Empty cells yield the zero
// time without error; the dataset leaves delivery dates blank for
// undelivered orders.
func (h header) time(rec []string, col string) (time.Time, error) {
	v := h.get(rec, col)
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(timestampLayout, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// readTable streams a CSV file, calling row for every data record. Rows
// for which row returns an error are skipped and counted, not fatal.
func readTable(path string, row func(h header, rec []string) error) (rows, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	head, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(head))
	for i, name := range head {
		h[strings.TrimSpace(strings.ToLower(name))] = i
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if err := row(h, rec); err != nil {
			skipped++
			continue
		}
		rows++
	}
	return rows, skipped, nil
}

// tables holds the parsed source tables before joining.
type tables struct {
	orders       []models.Order
	items        []models.OrderItem
	payments     []models.Payment
	reviews      []models.Review
	customers    []models.Customer
	sellers      []models.Seller
	products     []models.Product
	geolocations []models.Geolocation
	translations map[string]string
}

func readOrders(path string) ([]models.Order, int, error) {
	var out []models.Order
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		purchased, err := h.time(rec, "order_purchase_timestamp")
		if err != nil {
			return err
		}
		if purchased.IsZero() {
			return fmt.Errorf("missing purchase timestamp")
		}
		delivered, err := h.time(rec, "order_delivered_customer_date")
		if err != nil {
			return err
		}
		estimated, err := h.time(rec, "order_estimated_delivery_date")
		if err != nil {
			return err
		}
		id := h.get(rec, "order_id")
		customer := h.get(rec, "customer_id")
		if id == "" || customer == "" {
			return fmt.Errorf("missing order key")
		}
		out = append(out, models.Order{
			OrderID:     id,
			CustomerID:  customer,
			Status:      h.get(rec, "order_status"),
			PurchasedAt: purchased,
			DeliveredAt: delivered,
			EstimatedAt: estimated,
		})
		return nil
	})
	return out, skipped, err
}

func readItems(path string) ([]models.OrderItem, int, error) {
	var out []models.OrderItem
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		price, err := h.float(rec, "price")
		if err != nil {
			return err
		}
		freight, err := h.float(rec, "freight_value")
		if err != nil {
			return err
		}
		out = append(out, models.OrderItem{
			OrderID:   h.get(rec, "order_id"),
			ProductID: h.get(rec, "product_id"),
			SellerID:  h.get(rec, "seller_id"),
			Price:     price,
			Freight:   freight,
		})
		return nil
	})
	return out, skipped, err
}

func readPayments(path string) ([]models.Payment, int, error) {
	var out []models.Payment
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		value, err := h.float(rec, "payment_value")
		if err != nil {
			return err
		}
		out = append(out, models.Payment{
			OrderID: h.get(rec, "order_id"),
			Value:   value,
		})
		return nil
	})
	return out, skipped, err
}

func readReviews(path string) ([]models.Review, int, error) {
	var out []models.Review
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		score, err := h.int(rec, "review_score")
		if err != nil {
			return err
		}
		if score < 1 || score > 5 {
			return fmt.Errorf("review score out of range: %d", score)
		}
		created, err := h.time(rec, "review_creation_date")
		if err != nil {
			return err
		}
		out = append(out, models.Review{
			OrderID:   h.get(rec, "order_id"),
			Score:     score,
			CreatedAt: created,
		})
		return nil
	})
	return out, skipped, err
}

func readCustomers(path string) ([]models.Customer, int, error) {
	var out []models.Customer
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		id := h.get(rec, "customer_id")
		unique := h.get(rec, "customer_unique_id")
		if id == "" || unique == "" {
			return fmt.Errorf("missing customer key")
		}
		out = append(out, models.Customer{
			CustomerID: id,
			UniqueID:   unique,
			City:       h.get(rec, "customer_city"),
			State:      strings.ToUpper(h.get(rec, "customer_state")),
		})
		return nil
	})
	return out, skipped, err
}

func readSellers(path string) ([]models.Seller, int, error) {
	var out []models.Seller
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		id := h.get(rec, "seller_id")
		if id == "" {
			return fmt.Errorf("missing seller id")
		}
		out = append(out, models.Seller{
			SellerID: id,
			City:     h.get(rec, "seller_city"),
			State:    strings.ToUpper(h.get(rec, "seller_state")),
		})
		return nil
	})
	return out, skipped, err
}

func readProducts(path string) ([]models.Product, int, error) {
	var out []models.Product
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		id := h.get(rec, "product_id")
		if id == "" {
			return fmt.Errorf("missing product id")
		}
		out = append(out, models.Product{
			ProductID: id,
			Category:  h.get(rec, "product_category_name"),
		})
		return nil
	})
	return out, skipped, err
}

func readGeolocations(path string) ([]models.Geolocation, int, error) {
	var out []models.Geolocation
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		lat, err := h.float(rec, "geolocation_lat")
		if err != nil {
			return err
		}
		lng, err := h.float(rec, "geolocation_lng")
		if err != nil {
			return err
		}
		out = append(out, models.Geolocation{
			ZipPrefix: h.get(rec, "geolocation_zip_code_prefix"),
			Lat:       lat,
			Lng:       lng,
			City:      h.get(rec, "geolocation_city"),
			State:     strings.ToUpper(h.get(rec, "geolocation_state")),
		})
		return nil
	})
	return out, skipped, err
}

func readTranslations(path string) (map[string]string, int, error) {
	out := make(map[string]string)
	_, skipped, err := readTable(path, func(h header, rec []string) error {
		pt := h.get(rec, "product_category_name")
		en := h.get(rec, "product_category_name_english")
		if pt == "" || en == "" {
			return fmt.Errorf("missing translation")
		}
		out[pt] = en
		return nil
	})
	return out, skipped, err
}

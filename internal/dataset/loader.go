package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"olist-dashboard/internal/models"
)

// Result is the joined dataset: one record per order plus state side data
// and load accounting.
type Result struct {
	Orders    []models.OrderRecord
	StateInfo map[string]models.StateInfo
	Stats     LoadStats
}

// LoadStats records how the raw tables mapped onto joined records.
type LoadStats struct {
	TableRows    map[string]int
	SkippedRows  int
	NoCustomer   int
	NoPayment    int
	JoinedOrders int
	LoadedAt     time.Time
}

type Loader struct {
	dir      string
	cacheDir string
	logger   *slog.Logger
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, cacheDir: defaultCacheDir, logger: logger}
}

// Load reads all source tables concurrently, joins them into order
// records, and returns the result. A gob snapshot is consulted first and
// refreshed after a successful load.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	if cached, err := l.loadSnapshot(); err == nil {
		l.logger.Info("loaded dataset snapshot", "orders", len(cached.Orders))
		return cached, nil
	}

	start := time.Now()
	t, stats, err := l.readTables(ctx)
	if err != nil {
		return nil, err
	}

	result := join(t, stats)
	result.Stats.LoadedAt = time.Now()

	if len(result.Orders) == 0 {
		return nil, fmt.Errorf("no joinable orders in %s", l.dir)
	}

	if err := l.saveSnapshot(result); err != nil {
		l.logger.Warn("failed to save dataset snapshot", "error", err)
	}

	l.logger.Info("dataset loaded",
		"orders", len(result.Orders),
		"skipped_rows", result.Stats.SkippedRows,
		"duration", time.Since(start),
	)
	return result, nil
}

func (l *Loader) readTables(ctx context.Context) (*tables, LoadStats, error) {
	t := &tables{}
	stats := LoadStats{TableRows: make(map[string]int)}

	type tableCount struct {
		name    string
		rows    int
		skipped int
	}
	counts := make(chan tableCount, 9)

	g, ctx := errgroup.WithContext(ctx)

	run := func(name string, read func(path string) (int, int, error)) {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rows, skipped, err := read(filepath.Join(l.dir, name))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			counts <- tableCount{name: name, rows: rows, skipped: skipped}
			return nil
		})
	}

	run(ordersFile, func(p string) (rows, skipped int, err error) {
		t.orders, skipped, err = readOrders(p)
		return len(t.orders), skipped, err
	})
	run(itemsFile, func(p string) (rows, skipped int, err error) {
		t.items, skipped, err = readItems(p)
		return len(t.items), skipped, err
	})
	run(paymentsFile, func(p string) (rows, skipped int, err error) {
		t.payments, skipped, err = readPayments(p)
		return len(t.payments), skipped, err
	})
	run(reviewsFile, func(p string) (rows, skipped int, err error) {
		t.reviews, skipped, err = readReviews(p)
		return len(t.reviews), skipped, err
	})
	run(customersFile, func(p string) (rows, skipped int, err error) {
		t.customers, skipped, err = readCustomers(p)
		return len(t.customers), skipped, err
	})
	run(sellersFile, func(p string) (rows, skipped int, err error) {
		t.sellers, skipped, err = readSellers(p)
		return len(t.sellers), skipped, err
	})
	run(productsFile, func(p string) (rows, skipped int, err error) {
		t.products, skipped, err = readProducts(p)
		return len(t.products), skipped, err
	})
	run(geolocationFile, func(p string) (rows, skipped int, err error) {
		t.geolocations, skipped, err = readGeolocations(p)
		return len(t.geolocations), skipped, err
	})
	run(translationsFile, func(p string) (rows, skipped int, err error) {
		t.translations, skipped, err = readTranslations(p)
		return len(t.translations), skipped, err
	})

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	close(counts)
	for c := range counts {
		stats.TableRows[c.name] = c.rows
		stats.SkippedRows += c.skipped
	}
	return t, stats, nil
}

// join builds one OrderRecord per order from the parsed tables. Orders
// without a customer row or any payment rows are dropped and counted.
func join(t *tables, stats LoadStats) *Result {
	customers := make(map[string]models.Customer, len(t.customers))
	for _, c := range t.customers {
		customers[c.CustomerID] = c
	}

	payments := make(map[string]float64, len(t.orders))
	paid := make(map[string]bool, len(t.orders))
	for _, p := range t.payments {
		payments[p.OrderID] += p.Value
		paid[p.OrderID] = true
	}

	// Latest review per order wins when an order has several.
	reviews := make(map[string]models.Review)
	for _, r := range t.reviews {
		if prev, ok := reviews[r.OrderID]; !ok || r.CreatedAt.After(prev.CreatedAt) {
			reviews[r.OrderID] = r
		}
	}

	categories := make(map[string]string, len(t.products))
	for _, p := range t.products {
		cat := p.Category
		if en, ok := t.translations[cat]; ok {
			cat = en
		}
		categories[p.ProductID] = cat
	}

	type orderItems struct {
		count    int
		freight  float64
		topPrice float64
		category string
	}
	items := make(map[string]*orderItems)
	for _, it := range t.items {
		oi := items[it.OrderID]
		if oi == nil {
			oi = &orderItems{}
			items[it.OrderID] = oi
		}
		oi.count++
		oi.freight += it.Freight
		if cat := categories[it.ProductID]; cat != "" && it.Price >= oi.topPrice {
			oi.topPrice = it.Price
			oi.category = cat
		}
	}

	orders := make([]models.OrderRecord, 0, len(t.orders))
	for _, o := range t.orders {
		c, ok := customers[o.CustomerID]
		if !ok {
			stats.NoCustomer++
			continue
		}
		if !paid[o.OrderID] {
			stats.NoPayment++
			continue
		}

		rec := models.OrderRecord{
			OrderID:          o.OrderID,
			CustomerID:       o.CustomerID,
			CustomerUniqueID: c.UniqueID,
			State:            c.State,
			City:             c.City,
			Status:           o.Status,
			PurchasedAt:      o.PurchasedAt,
			DeliveredAt:      o.DeliveredAt,
			EstimatedAt:      o.EstimatedAt,
			TotalPayment:     payments[o.OrderID],
		}
		if r, ok := reviews[o.OrderID]; ok {
			rec.ReviewScore = r.Score
			rec.HasReview = true
		}
		if oi, ok := items[o.OrderID]; ok {
			rec.Items = oi.count
			rec.FreightValue = oi.freight
			rec.Category = oi.category
		}
		orders = append(orders, rec)
	}

	slices.SortFunc(orders, func(a, b models.OrderRecord) int {
		return a.PurchasedAt.Compare(b.PurchasedAt)
	})

	stats.JoinedOrders = len(orders)
	return &Result{
		Orders:    orders,
		StateInfo: buildStateInfo(t),
		Stats:     stats,
	}
}

func buildStateInfo(t *tables) map[string]models.StateInfo {
	type centroid struct {
		lat, lng float64
		n        int
	}
	centroids := make(map[string]*centroid)
	for _, g := range t.geolocations {
		c := centroids[g.State]
		if c == nil {
			c = &centroid{}
			centroids[g.State] = c
		}
		c.lat += g.Lat
		c.lng += g.Lng
		c.n++
	}

	sellers := make(map[string]int)
	for _, s := range t.sellers {
		sellers[s.State]++
	}

	info := make(map[string]models.StateInfo)
	for state, c := range centroids {
		info[state] = models.StateInfo{
			Sellers: sellers[state],
			Lat:     c.lat / float64(c.n),
			Lng:     c.lng / float64(c.n),
		}
	}
	for state, n := range sellers {
		if _, ok := info[state]; !ok {
			info[state] = models.StateInfo{Sellers: n}
		}
	}
	return info
}

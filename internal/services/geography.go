package services

import (
	"slices"
	"strings"

	"olist-dashboard/internal/models"
)

const top5States = 5

// computeGeography rolls revenue, orders, and customers up to the
// customer state, joined with seller counts and state centroids.
func computeGeography(orders []models.OrderRecord, stateInfo map[string]models.StateInfo) models.GeographyReport {
	type stateAgg struct {
		customers map[string]bool
		orders    int
		revenue   float64
	}
	states := make(map[string]*stateAgg)

	var totalRevenue float64
	for _, o := range orders {
		if o.State == "" {
			continue
		}
		s := states[o.State]
		if s == nil {
			s = &stateAgg{customers: make(map[string]bool)}
			states[o.State] = s
		}
		s.customers[o.CustomerUniqueID] = true
		s.orders++
		s.revenue += o.TotalPayment
		totalRevenue += o.TotalPayment
	}

	report := models.GeographyReport{
		States: make([]models.StateSummary, 0, len(states)),
	}
	for name, s := range states {
		summary := models.StateSummary{
			State:     name,
			Customers: len(s.customers),
			Orders:    s.orders,
			Revenue:   s.revenue,
		}
		if summary.Customers > 0 {
			summary.RevenuePerCustomer = s.revenue / float64(summary.Customers)
		}
		if info, ok := stateInfo[name]; ok {
			summary.Sellers = info.Sellers
			summary.Lat = info.Lat
			summary.Lng = info.Lng
		}
		report.States = append(report.States, summary)
	}

	slices.SortFunc(report.States, func(a, b models.StateSummary) int {
		if a.Revenue != b.Revenue {
			if a.Revenue > b.Revenue {
				return -1
			}
			return 1
		}
		return strings.Compare(a.State, b.State)
	})

	if len(report.States) == 0 || totalRevenue == 0 {
		return report
	}

	top := report.States[0]
	report.TopState = top.State
	report.TopRevenue = top.Revenue
	report.MarketShare = top.Revenue / totalRevenue * 100

	var top5 float64
	for i, s := range report.States {
		if i >= top5States {
			break
		}
		top5 += s.Revenue
	}
	report.Top5Share = top5 / totalRevenue * 100

	return report
}

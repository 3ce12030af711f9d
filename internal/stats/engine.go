package stats

import (
	"errors"
	"fmt"

	"github.com/terra-clan/techdesk/internal/models"
)

// ErrUnknownStatus is returned when an order carries a non-canonical status
var ErrUnknownStatus = errors.New("unknown order status")

const (
	// TrendMonths is the number of calendar months reported, January first
	TrendMonths = 9

	// AverageTicket is the assumed revenue per order
	AverageTicket = 500.0

	// RevenueNoise bounds the random term added to each monthly estimate
	RevenueNoise = 10000.0
)

var monthLabels = [TrendMonths]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep"}

// Percent of the client base assigned to each segment
const (
	corporateShare  = 40
	smbShare        = 30
	individualShare = 20
	governmentShare = 10
)

// TechnicianCategories are the skill axes of the performance chart
var TechnicianCategories = []string{"Speed", "Quality", "Satisfaction", "Efficiency", "Punctuality"}

// ScoreProfile is a base score plus an exclusive noise span per category
type ScoreProfile struct {
	Base []int
	Span []int
}

var (
	TechnicianAProfile = ScoreProfile{
		Base: []int{85, 90, 88, 92, 87},
		Span: []int{10, 5, 7, 4, 8},
	}
	TechnicianBProfile = ScoreProfile{
		Base: []int{78, 85, 90, 88, 92},
		Span: []int{12, 8, 5, 6, 4},
	}
)

// Summarize counts orders, clients and services and sums inventory quantities
func Summarize(
	orders []*models.Order,
	clients []*models.Client,
	services []*models.Service,
	inventory []*models.InventoryItem,
) models.Summary {
	s := models.Summary{
		TotalOrders:   len(orders),
		TotalClients:  len(clients),
		TotalServices: len(services),
	}
	for _, item := range inventory {
		if item != nil {
			s.TotalInventory += item.Quantity
		}
	}
	return s
}

// StatusBreakdown counts orders per status. A status outside the
// canonical four is a data-integrity error.
func StatusBreakdown(orders []*models.Order) (models.StatusDistribution, error) {
	var d models.StatusDistribution
	for _, o := range orders {
		if o == nil {
			continue
		}
		switch o.Status {
		case models.OrderPending:
			d.Pending++
		case models.OrderInProgress:
			d.InProgress++
		case models.OrderCompleted:
			d.Completed++
		case models.OrderCancelled:
			d.Cancelled++
		default:
			return models.StatusDistribution{}, fmt.Errorf("order %d: %w: %q", o.ID, ErrUnknownStatus, o.Status)
		}
	}
	return d, nil
}

// MonthlyRevenue estimates revenue for January through September from
// order counts plus uniform noise in [0, RevenueNoise).
func MonthlyRevenue(orders []*models.Order, rng Source) models.MonthlyTrend {
	counts := countByMonth(orders, func(*models.Order) bool { return true })

	trend := models.MonthlyTrend{
		Months:    months(),
		Revenue:   make([]float64, TrendMonths),
		Estimated: true,
	}
	for i, n := range counts {
		trend.Revenue[i] = float64(n)*AverageTicket + rng.Float64()*RevenueNoise
	}
	return trend
}

// ServiceTrend splits completed orders per month 60/40 into repairs and
// maintenance. Both sides are truncated, so they may not add up.
func ServiceTrend(orders []*models.Order) models.ServiceTrend {
	counts := countByMonth(orders, func(o *models.Order) bool {
		return o.Status == models.OrderCompleted
	})

	trend := models.ServiceTrend{
		Months:      months(),
		Repairs:     make([]int, TrendMonths),
		Maintenance: make([]int, TrendMonths),
	}
	for i, n := range counts {
		trend.Repairs[i] = n * 6 / 10
		trend.Maintenance[i] = n * 4 / 10
	}
	return trend
}

// ClientSegments assigns fixed shares of the client count to each segment
func ClientSegments(clients []*models.Client) models.ClientSegmentation {
	total := len(clients)
	return models.ClientSegmentation{
		Corporate:  total * corporateShare / 100,
		SMB:        total * smbShare / 100,
		Individual: total * individualShare / 100,
		Government: total * governmentShare / 100,
	}
}

// TechnicianScores produces placeholder performance scores. Nothing here
// is measured; only CompletedOrders comes from real data.
func TechnicianScores(orders []*models.Order, rng Source) models.TechnicianPerformance {
	completed := 0
	for _, o := range orders {
		if o != nil && o.Status == models.OrderCompleted {
			completed++
		}
	}

	return models.TechnicianPerformance{
		Categories:      append([]string(nil), TechnicianCategories...),
		TechnicianA:     TechnicianAProfile.draw(rng),
		TechnicianB:     TechnicianBProfile.draw(rng),
		CompletedOrders: completed,
		Synthetic:       true,
	}
}

func (p ScoreProfile) draw(rng Source) []int {
	scores := make([]int, len(p.Base))
	for i, base := range p.Base {
		scores[i] = base + rng.IntN(p.Span[i])
	}
	return scores
}

// countByMonth counts matching orders by creation month, January..September
func countByMonth(orders []*models.Order, match func(*models.Order) bool) [TrendMonths]int {
	var counts [TrendMonths]int
	for _, o := range orders {
		if o == nil || !match(o) {
			continue
		}
		m := int(o.CreatedAt.Month())
		if m >= 1 && m <= TrendMonths {
			counts[m-1]++
		}
	}
	return counts
}

func months() []string {
	return append([]string(nil), monthLabels[:]...)
}

package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/techdesk/internal/models"
)

// fixedSource always returns the same draw
type fixedSource struct {
	frac float64
	top  bool
}

func (s fixedSource) Float64() float64 { return s.frac }

func (s fixedSource) IntN(n int) int {
	if s.top {
		return n - 1
	}
	return 0
}

func order(id int64, status models.OrderStatus, month time.Month) *models.Order {
	return &models.Order{
		ID:        id,
		Status:    status,
		CreatedAt: time.Date(2025, month, 10, 12, 0, 0, 0, time.UTC),
	}
}

func ordersIn(month time.Month, status models.OrderStatus, n int) []*models.Order {
	out := make([]*models.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, order(int64(i+1), status, month))
	}
	return out
}

func clients(n int) []*models.Client {
	out := make([]*models.Client, n)
	for i := range out {
		out[i] = &models.Client{ID: int64(i + 1)}
	}
	return out
}

func TestSummarize(t *testing.T) {
	orders := []*models.Order{order(1, models.OrderPending, time.March), order(2, models.OrderCompleted, time.May)}
	services := []*models.Service{{ID: 1}, {ID: 2}, {ID: 3}}
	inventory := []*models.InventoryItem{
		{ID: 1, Component: "Laptop Dell", Quantity: 4},
		{ID: 2, Component: "Cable HDMI", Quantity: 0},
		{ID: 3, Component: "RAM 16GB", Quantity: 11},
	}

	got := Summarize(orders, clients(5), services, inventory)

	assert.Equal(t, models.Summary{
		TotalOrders:    2,
		TotalClients:   5,
		TotalServices:  3,
		TotalInventory: 15,
	}, got)
}

func TestEmptyCollections(t *testing.T) {
	assert.Equal(t, models.Summary{}, Summarize(nil, nil, nil, nil))

	dist, err := StatusBreakdown(nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDistribution{}, dist)

	assert.Equal(t, models.InventoryBreakdown{}, InventoryByCategory(nil))
	assert.Equal(t, models.ClientSegmentation{}, ClientSegments(nil))

	trend := ServiceTrend(nil)
	assert.Equal(t, make([]int, TrendMonths), trend.Repairs)
	assert.Equal(t, make([]int, TrendMonths), trend.Maintenance)
}

func TestStatusBreakdown(t *testing.T) {
	orders := []*models.Order{
		order(1, models.OrderPending, time.January),
		order(2, models.OrderPending, time.February),
		order(3, models.OrderInProgress, time.March),
		order(4, models.OrderCompleted, time.April),
		order(5, models.OrderCompleted, time.November),
		order(6, models.OrderCompleted, time.December),
		nil,
	}

	dist, err := StatusBreakdown(orders)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDistribution{Pending: 2, InProgress: 1, Completed: 3, Cancelled: 0}, dist)
	assert.Equal(t, 6, dist.Total())
}

func TestStatusBreakdownUnknownStatus(t *testing.T) {
	orders := []*models.Order{
		order(1, models.OrderPending, time.January),
		order(42, models.OrderStatus("PENDIENTE"), time.January),
	}

	_, err := StatusBreakdown(orders)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Contains(t, err.Error(), "order 42")
}

func TestMonthlyRevenue(t *testing.T) {
	orders := append(ordersIn(time.January, models.OrderPending, 3), ordersIn(time.September, models.OrderCancelled, 2)...)
	orders = append(orders, ordersIn(time.October, models.OrderCompleted, 7)...)

	trend := MonthlyRevenue(orders, fixedSource{frac: 0})

	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep"}, trend.Months)
	assert.True(t, trend.Estimated)
	require.Len(t, trend.Revenue, TrendMonths)
	assert.Equal(t, 1500.0, trend.Revenue[0])
	assert.Equal(t, 0.0, trend.Revenue[4])
	assert.Equal(t, 1000.0, trend.Revenue[8])

	withNoise := MonthlyRevenue(orders, fixedSource{frac: 0.25})
	assert.Equal(t, 4000.0, withNoise.Revenue[0])
	assert.Equal(t, 2500.0, withNoise.Revenue[1])
}

func TestMonthlyRevenueBounds(t *testing.T) {
	orders := ordersIn(time.February, models.OrderPending, 4)

	var previous []float64
	differed := false
	for i := 0; i < 50; i++ {
		trend := MonthlyRevenue(orders, NewSource())
		for m, v := range trend.Revenue {
			base := 0.0
			if m == 1 {
				base = 2000
			}
			assert.GreaterOrEqual(t, v, base)
			assert.Less(t, v, base+RevenueNoise)
		}
		if previous != nil && !assert.ObjectsAreEqual(previous, trend.Revenue) {
			differed = true
		}
		previous = trend.Revenue
	}
	assert.True(t, differed, "repeated estimates should not be identical")
}

func TestServiceTrend(t *testing.T) {
	tests := []struct {
		name            string
		completed       int
		wantRepairs     int
		wantMaintenance int
	}{
		{"ten", 10, 6, 4},
		{"seven truncates", 7, 4, 2},
		{"one", 1, 0, 0},
		{"three", 3, 1, 1},
		{"zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := ordersIn(time.June, models.OrderCompleted, tt.completed)
			orders = append(orders, ordersIn(time.June, models.OrderPending, 5)...)

			trend := ServiceTrend(orders)

			assert.Equal(t, tt.wantRepairs, trend.Repairs[5])
			assert.Equal(t, tt.wantMaintenance, trend.Maintenance[5])
			assert.LessOrEqual(t, trend.Repairs[5]+trend.Maintenance[5], tt.completed)
		})
	}
}

func TestServiceTrendIgnoresLateMonths(t *testing.T) {
	trend := ServiceTrend(ordersIn(time.December, models.OrderCompleted, 10))
	assert.Equal(t, make([]int, TrendMonths), trend.Repairs)
}

func TestClientSegments(t *testing.T) {
	assert.Equal(t, models.ClientSegmentation{Corporate: 40, SMB: 30, Individual: 20, Government: 10}, ClientSegments(clients(100)))
	assert.Equal(t, models.ClientSegmentation{Corporate: 2, SMB: 2, Individual: 1, Government: 0}, ClientSegments(clients(7)))
	assert.Equal(t, models.ClientSegmentation{Corporate: 0, SMB: 0, Individual: 0, Government: 0}, ClientSegments(clients(1)))
}

func TestTechnicianScores(t *testing.T) {
	orders := append(ordersIn(time.March, models.OrderCompleted, 3), ordersIn(time.March, models.OrderPending, 2)...)

	low := TechnicianScores(orders, fixedSource{})
	assert.Equal(t, []int{85, 90, 88, 92, 87}, low.TechnicianA)
	assert.Equal(t, []int{78, 85, 90, 88, 92}, low.TechnicianB)
	assert.Equal(t, 3, low.CompletedOrders)
	assert.True(t, low.Synthetic)
	assert.Equal(t, TechnicianCategories, low.Categories)

	high := TechnicianScores(orders, fixedSource{top: true})
	assert.Equal(t, []int{94, 94, 94, 95, 94}, high.TechnicianA)
	assert.Equal(t, []int{89, 92, 94, 93, 95}, high.TechnicianB)
}

func TestTechnicianScoresBounds(t *testing.T) {
	seen := make(map[[5]int]bool)
	for i := 0; i < 100; i++ {
		perf := TechnicianScores(nil, NewSource())
		require.Len(t, perf.TechnicianA, 5)
		require.Len(t, perf.TechnicianB, 5)
		for c := range perf.Categories {
			assert.GreaterOrEqual(t, perf.TechnicianA[c], TechnicianAProfile.Base[c])
			assert.Less(t, perf.TechnicianA[c], TechnicianAProfile.Base[c]+TechnicianAProfile.Span[c])
			assert.GreaterOrEqual(t, perf.TechnicianB[c], TechnicianBProfile.Base[c])
			assert.Less(t, perf.TechnicianB[c], TechnicianBProfile.Base[c]+TechnicianBProfile.Span[c])
		}
		seen[[5]int(perf.TechnicianA)] = true
	}
	assert.Greater(t, len(seen), 1, "scores should vary between calls")
}

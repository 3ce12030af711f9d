package models

// Summary holds the headline totals of the dashboard
type Summary struct {
	TotalOrders    int `json:"totalOrders"`
	TotalClients   int `json:"totalClients"`
	TotalServices  int `json:"totalServices"`
	TotalInventory int `json:"totalInventory"`
}

// StatusDistribution counts orders per canonical status.
// Every status is a field so all four keys are always serialized.
type StatusDistribution struct {
	Pending    int `json:"PENDING"`
	InProgress int `json:"IN_PROGRESS"`
	Completed  int `json:"COMPLETED"`
	Cancelled  int `json:"CANCELLED"`
}

// Total returns the number of orders counted
func (d StatusDistribution) Total() int {
	return d.Pending + d.InProgress + d.Completed + d.Cancelled
}

// MonthlyTrend is an estimated revenue series, Jan..Sep.
// Values include random noise and are not real sales figures.
type MonthlyTrend struct {
	Months    []string  `json:"months"`
	Revenue   []float64 `json:"revenue"`
	Estimated bool      `json:"estimated"`
}

// ServiceTrend splits completed orders per month into repairs and maintenance
type ServiceTrend struct {
	Months      []string `json:"months"`
	Repairs     []int    `json:"repairs"`
	Maintenance []int    `json:"maintenance"`
}

// ClientSegmentation is a proportional estimate of the client base
type ClientSegmentation struct {
	Corporate  int `json:"Corporate"`
	SMB        int `json:"SMB"`
	Individual int `json:"Individual"`
	Government int `json:"Government"`
}

// InventoryBreakdown sums item quantities per display category
type InventoryBreakdown struct {
	Laptops     int `json:"Laptops"`
	PCs         int `json:"PCs"`
	Peripherals int `json:"Peripherals"`
	Components  int `json:"Components"`
	Accessories int `json:"Accessories"`
}

// Total returns the summed quantity across all categories
func (b InventoryBreakdown) Total() int {
	return b.Laptops + b.PCs + b.Peripherals + b.Components + b.Accessories
}

// TechnicianPerformance holds placeholder scores for two technicians.
// The scores are simulated, not measured.
type TechnicianPerformance struct {
	Categories      []string `json:"categories"`
	TechnicianA     []int    `json:"technicianA"`
	TechnicianB     []int    `json:"technicianB"`
	CompletedOrders int      `json:"completedOrders"`
	Synthetic       bool     `json:"synthetic"`
}

// Snapshot is pushed to live dashboards
type Snapshot struct {
	Summary  Summary            `json:"summary"`
	ByStatus StatusDistribution `json:"byStatus"`
}

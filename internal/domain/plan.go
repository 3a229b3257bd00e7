package domain

// Plan is one offer inside an investment category
type Plan struct {
	Name       string  `json:"name"`       // Plan name
	MinAmount  float64 `json:"minAmount"`  // Smallest accepted deposit
	MaxAmount  float64 `json:"maxAmount"`  // Largest accepted deposit, 0 means unbounded
	ROIPercent float64 `json:"roiPercent"` // Advertised return
	Days       int     `json:"days"`       // Plan duration
}

// Accepts reports whether amount fits the plan bounds
func (p Plan) Accepts(amount float64) bool {
	if amount < p.MinAmount {
		return false
	}
	return p.MaxAmount == 0 || amount <= p.MaxAmount
}

// Catalog maps investment categories to their plans
type Catalog map[string][]Plan

// Find looks up a plan by category and name
func (c Catalog) Find(investment, plan string) (Plan, bool) {
	for _, p := range c[investment] {
		if p.Name == plan {
			return p, true
		}
	}
	return Plan{}, false
}

// DefaultCatalog is the plan catalog offered on the dashboard
var DefaultCatalog = Catalog{
	"Real Estate": {
		{Name: "Starter", MinAmount: 500, MaxAmount: 4999, ROIPercent: 10, Days: 30},
		{Name: "Premium", MinAmount: 5000, MaxAmount: 49999, ROIPercent: 15, Days: 60},
		{Name: "Estate Pro", MinAmount: 50000, ROIPercent: 22, Days: 90},
	},
	"Crypto currency": {
		{Name: "Basic", MinAmount: 100, MaxAmount: 999, ROIPercent: 8, Days: 7},
		{Name: "Standard", MinAmount: 1000, MaxAmount: 9999, ROIPercent: 12, Days: 14},
		{Name: "Gold", MinAmount: 10000, ROIPercent: 18, Days: 30},
	},
	"Forex Investment": {
		{Name: "Bronze", MinAmount: 200, MaxAmount: 1999, ROIPercent: 7, Days: 14},
		{Name: "Silver", MinAmount: 2000, MaxAmount: 19999, ROIPercent: 11, Days: 30},
		{Name: "Platinum", MinAmount: 20000, ROIPercent: 16, Days: 60},
	},
	"Stock Investment": {
		{Name: "Entry", MinAmount: 250, MaxAmount: 2499, ROIPercent: 6, Days: 30},
		{Name: "Growth", MinAmount: 2500, MaxAmount: 24999, ROIPercent: 10, Days: 60},
		{Name: "Elite", MinAmount: 25000, ROIPercent: 14, Days: 90},
	},
}

package types

// Segment names for the three fixed product tiers.
const (
	SegmentPremium  = "premium"
	SegmentMidRange = "mid_range"
	SegmentBudget   = "budget"
)

// SegmentOrder is the fixed processing order for anything that walks the
// product portfolio. Sequential cash clamping depends on this order being
// stable across runs.
var SegmentOrder = []string{SegmentPremium, SegmentMidRange, SegmentBudget}

// Company holds one team's simulated business. All 0-100 scaled
// attributes stay clamped after every mutation; capital and production
// capacity are unbounded.
type Company struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`

	// Financial state
	Capital      float64 `json:"capital"`
	Revenue      float64 `json:"revenue"`
	Costs        float64 `json:"costs"`
	Profit       float64 `json:"profit"`
	ProfitMargin float64 `json:"profit_margin"`
	ROI          float64 `json:"roi"`

	// Operational state
	RDCapability       float64 `json:"r_d_capability"`
	ProductionCapacity float64 `json:"production_capacity"`
	BrandStrength      float64 `json:"brand_strength"`
	QualityControl     float64 `json:"quality_control"`

	// Market state
	MarketShare          float64 `json:"market_share"`
	CustomerSatisfaction float64 `json:"customer_satisfaction"`

	// Innovation state
	PatentPortfolio float64 `json:"patent_portfolio"`
	InnovationIndex float64 `json:"innovation_index"`
	RDEffectiveness float64 `json:"r_d_effectiveness"`

	// Sustainability state
	EnvironmentalImpact  float64 `json:"environmental_impact"`
	CSRRating            float64 `json:"csr_rating"`
	EmployeeSatisfaction float64 `json:"employee_satisfaction"`

	Products map[string]*Product `json:"products"`

	// Decisions as submitted, keyed by round. Audit trail only; never
	// consulted by settlement or scoring.
	DecisionsHistory map[int]*Decisions `json:"decisions_history"`

	// Balanced scorecard
	Score               float64 `json:"score"`
	FinancialScore      float64 `json:"financial_score"`
	MarketScore         float64 `json:"market_score"`
	InnovationScore     float64 `json:"innovation_score"`
	SustainabilityScore float64 `json:"sustainability_score"`
}

// Product is one segment entry of a company's portfolio.
type Product struct {
	Active           bool    `json:"active"`
	Price            float64 `json:"price"`
	Quality          float64 `json:"quality"`
	Features         float64 `json:"features"`
	ProductionVolume float64 `json:"production_volume"`
	MarketingBudget  float64 `json:"marketing_budget"`
}

// Clone returns a deep copy of the company, used for post-round
// snapshots so later rounds can't mutate historical records.
func (c *Company) Clone() *Company {
	dup := *c
	dup.Products = make(map[string]*Product, len(c.Products))
	for seg, p := range c.Products {
		cp := *p
		dup.Products[seg] = &cp
	}
	dup.DecisionsHistory = make(map[int]*Decisions, len(c.DecisionsHistory))
	for round, d := range c.DecisionsHistory {
		dup.DecisionsHistory[round] = d
	}
	return &dup
}

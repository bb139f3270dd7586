package game

import (
	"math"

	"github.com/user/strategy-masters/internal/types"
)

// Company starting values and investment conversion rates. Every rate is
// dollars-per-point (or per unit), applied after the spend is clamped to
// available cash.
const (
	StartingCapital    = 500_000_000
	StartingCapacity   = 500_000
	startingAttribute  = 50
	fixedCostsPerRound = 10_000_000

	rdPointsPerTranche    = 5            // points gained per R&D tranche
	rdTrancheDollars      = 50_000_000   // R&D tranche size
	rdEffectivenessShare  = 0.5          // share of capability gain applied to effectiveness
	patentDollars         = 100_000_000  // dollars per patent
	focusBoostRate        = 0.1          // innovation points per focus allocation point
	capacityUnitDollars   = 10_000       // dollars per unit of capacity
	qualityTrancheDollars = 10_000_000   // 5 points per tranche
	corporateTranche      = 5_000_000    // 5 points per tranche (sustainability/CSR/employee)
	brandTrancheDollars   = 20_000_000   // 5 points per tranche
	tranchePoints         = 5
)

// R&D focus areas recognized by the innovation model.
var rdFocusAreas = map[string]bool{
	"camera":    true,
	"battery":   true,
	"processor": true,
	"display":   true,
	"software":  true,
}

// Per-segment base production costs.
var segmentBaseCosts = map[string]float64{
	types.SegmentPremium:  300,
	types.SegmentMidRange: 200,
	types.SegmentBudget:   100,
}

// NewCompany creates a company with the fixed starting portfolio: one
// active mid-range product, everything else dormant.
func NewCompany(teamID, name string, capital, capacity float64) *types.Company {
	return &types.Company{
		TeamID:               teamID,
		Name:                 name,
		Capital:              capital,
		RDCapability:         startingAttribute,
		ProductionCapacity:   capacity,
		BrandStrength:        startingAttribute,
		QualityControl:       startingAttribute,
		CustomerSatisfaction: startingAttribute,
		InnovationIndex:      startingAttribute,
		RDEffectiveness:      startingAttribute,
		EnvironmentalImpact:  startingAttribute,
		CSRRating:            startingAttribute,
		EmployeeSatisfaction: startingAttribute,
		Products: map[string]*types.Product{
			types.SegmentPremium: {},
			types.SegmentMidRange: {
				Active:           true,
				Price:            499,
				Quality:          60,
				Features:         60,
				ProductionVolume: 200_000,
				MarketingBudget:  20_000_000,
			},
			types.SegmentBudget: {},
		},
		DecisionsHistory: make(map[int]*types.Decisions),
	}
}

// ProcessDecisions applies a team's payload for the given round. Spends
// are clamped sequentially against cash in a fixed order (R&D, then
// per-segment marketing, then operations, then corporate), so a company
// can never go cash-negative within one submission.
func ProcessDecisions(c *types.Company, d *types.Decisions, round int) {
	if d == nil {
		d = &types.Decisions{}
	}
	d.Normalize()
	c.DecisionsHistory[round] = d

	if d.RD != nil {
		budget := spend(c, d.RD.Budget)

		gain := budget / rdTrancheDollars * rdPointsPerTranche
		c.RDCapability = clampScale(c.RDCapability + gain)
		c.RDEffectiveness = clampScale(c.RDEffectiveness + gain*rdEffectivenessShare)

		boost := 0.0
		for area, allocation := range d.RD.Focus {
			if rdFocusAreas[area] {
				boost += allocation * focusBoostRate
			}
		}
		c.InnovationIndex = clampScale(c.InnovationIndex + boost)

		c.PatentPortfolio += budget / patentDollars
	}

	// Apply all product overrides first, then rescale volumes once, then
	// deduct marketing in fixed segment order.
	for _, segment := range types.SegmentOrder {
		pd, ok := d.Products[segment]
		if !ok {
			continue
		}
		product := c.Products[segment]
		if pd.Active != nil {
			product.Active = *pd.Active
		}
		if !product.Active {
			continue
		}
		if pd.Price != nil {
			product.Price = *pd.Price
		}
		if pd.Quality != nil {
			product.Quality = *pd.Quality
		}
		if pd.Features != nil {
			product.Features = *pd.Features
		}
		if pd.ProductionVolume != nil {
			product.ProductionVolume = *pd.ProductionVolume
		}
		if pd.MarketingBudget != nil {
			product.MarketingBudget = *pd.MarketingBudget
		}
	}

	scaleToCapacity(c)

	for _, segment := range types.SegmentOrder {
		if _, ok := d.Products[segment]; !ok {
			continue
		}
		product := c.Products[segment]
		if product.Active {
			product.MarketingBudget = spend(c, product.MarketingBudget)
		}
	}

	if d.Operations != nil {
		capacityInvestment := spend(c, d.Operations.CapacityInvestment)
		c.ProductionCapacity += capacityInvestment / capacityUnitDollars

		qualityInvestment := spend(c, d.Operations.QualityInvestment)
		c.QualityControl = clampScale(c.QualityControl + qualityInvestment/qualityTrancheDollars*tranchePoints)
	}

	if d.Corporate != nil {
		sustainability := spend(c, d.Corporate.SustainabilityInvestment)
		c.EnvironmentalImpact = clampScale(c.EnvironmentalImpact + sustainability/corporateTranche*tranchePoints)

		csr := spend(c, d.Corporate.CSRInvestment)
		c.CSRRating = clampScale(c.CSRRating + csr/corporateTranche*tranchePoints)

		employee := spend(c, d.Corporate.EmployeeInvestment)
		c.EmployeeSatisfaction = clampScale(c.EmployeeSatisfaction + employee/corporateTranche*tranchePoints)

		brand := spend(c, d.Corporate.BrandInvestment)
		c.BrandStrength = clampScale(c.BrandStrength + brand/brandTrancheDollars*tranchePoints)
	}
}

// spend clamps a requested amount against current cash and deducts it,
// so later spends in the same submission see the reduced balance.
func spend(c *types.Company, requested float64) float64 {
	amount := math.Min(requested, c.Capital)
	c.Capital -= amount
	return amount
}

// scaleToCapacity shrinks every active segment's volume by the same
// factor when the requested total exceeds production capacity.
func scaleToCapacity(c *types.Company) {
	total := 0.0
	for _, p := range c.Products {
		if p.Active {
			total += p.ProductionVolume
		}
	}
	if total <= c.ProductionCapacity || total == 0 {
		return
	}
	factor := c.ProductionCapacity / total
	for _, p := range c.Products {
		if p.Active {
			p.ProductionVolume *= factor
		}
	}
}

// ApplySettlement commits one round's market outcome to the company's
// financial state. A nil result means the company sold nothing this
// round; it still pays fixed costs.
func ApplySettlement(c *types.Company, res *types.CompanyResult) {
	c.Revenue = 0
	c.Costs = 0

	if res != nil {
		for segment, sales := range res.Sales {
			product, ok := c.Products[segment]
			if !ok || !product.Active {
				continue
			}
			units := float64(sales.UnitsSold)
			c.Revenue += units * product.Price
			c.Costs += units * unitCost(c, segment)
		}
	}
	c.Costs += fixedCostsPerRound

	c.Profit = c.Revenue - c.Costs
	c.Capital += c.Profit

	if c.Revenue > 0 {
		c.ProfitMargin = c.Profit / c.Revenue * 100
	} else {
		c.ProfitMargin = 0
	}

	marketingSpend := 0.0
	for _, p := range c.Products {
		if p.Active {
			marketingSpend += p.MarketingBudget
		}
	}
	if marketingSpend > 0 {
		c.ROI = c.Profit / marketingSpend * 100
	} else {
		c.ROI = 0
	}

	if res != nil {
		c.MarketShare = res.MarketShare
		c.CustomerSatisfaction = clampScale(c.CustomerSatisfaction + res.SatisfactionChange)
	} else {
		c.MarketShare = 0
	}
}

// unitCost is the per-unit production cost for a segment: base cost
// scaled by quality and features, reduced up to 20% by R&D capability
// above the baseline.
func unitCost(c *types.Company, segment string) float64 {
	cost, ok := segmentBaseCosts[segment]
	if !ok {
		cost = segmentBaseCosts[types.SegmentMidRange]
	}
	product := c.Products[segment]
	cost *= product.Quality / 50
	cost *= product.Features / 50

	efficiency := (c.RDCapability - 50) / 100
	cost *= 1 - efficiency*0.2
	return cost
}

// ComputeScore recomputes the balanced scorecard from current state.
// Sub-scores are pure functions of the company's attributes, never
// accumulated across rounds.
func ComputeScore(c *types.Company) float64 {
	// Financial performance (40%)
	if c.Revenue > 0 {
		revenueScore := math.Min(100, c.Revenue/10_000_000)
		profitScore := math.Min(100, math.Max(0, c.ProfitMargin*5))
		roiScore := math.Min(100, math.Max(0, c.ROI))
		capitalScore := math.Min(100, c.Capital/10_000_000)
		c.FinancialScore = revenueScore*0.3 + profitScore*0.3 + roiScore*0.2 + capitalScore*0.2
	} else {
		c.FinancialScore = 0
	}

	// Market position (30%)
	activeProducts := 0
	for _, p := range c.Products {
		if p.Active {
			activeProducts++
		}
	}
	portfolioScore := float64(activeProducts) / float64(len(c.Products)) * 100
	c.MarketScore = c.MarketShare*100*0.4 + c.BrandStrength*0.3 +
		c.CustomerSatisfaction*0.2 + portfolioScore*0.1

	// Innovation and growth (20%)
	patentScore := math.Min(100, c.PatentPortfolio*10)
	growthPotential := math.Min(100, (c.RDCapability+c.InnovationIndex)/2)
	c.InnovationScore = patentScore*0.3 + c.InnovationIndex*0.3 +
		c.RDEffectiveness*0.2 + growthPotential*0.2

	// Sustainability (10%)
	viability := 0
	for _, healthy := range []bool{
		c.ProfitMargin > 0,
		c.Capital > 100_000_000,
		c.MarketShare > 0.05,
		c.InnovationIndex > 50,
		c.CustomerSatisfaction > 60,
	} {
		if healthy {
			viability++
		}
	}
	viabilityScore := float64(viability) / 5 * 100
	c.SustainabilityScore = c.EnvironmentalImpact*0.3 + c.CSRRating*0.3 +
		c.EmployeeSatisfaction*0.2 + viabilityScore*0.2

	c.Score = c.FinancialScore*0.4 + c.MarketScore*0.3 +
		c.InnovationScore*0.2 + c.SustainabilityScore*0.1
	return c.Score
}

func clampScale(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

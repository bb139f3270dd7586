package types

import "math"

// Decisions is one team's payload for a round. Every section is
// optional; an empty payload is a valid no-op submission.
type Decisions struct {
	RD         *RDDecision                 `json:"r_d,omitempty"`
	Products   map[string]*ProductDecision `json:"products,omitempty"`
	Operations *OperationsDecision         `json:"operations,omitempty"`
	Corporate  *CorporateDecision          `json:"corporate,omitempty"`
}

// RDDecision allocates an R&D budget and splits focus across named
// technology areas (camera, battery, processor, display, software).
type RDDecision struct {
	Budget float64            `json:"budget"`
	Focus  map[string]float64 `json:"focus,omitempty"`
}

// ProductDecision overrides a segment's product attributes. Nil fields
// mean "no change"; Active nil keeps the current flag.
type ProductDecision struct {
	Active           *bool    `json:"active,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Quality          *float64 `json:"quality,omitempty"`
	Features         *float64 `json:"features,omitempty"`
	ProductionVolume *float64 `json:"production_volume,omitempty"`
	MarketingBudget  *float64 `json:"marketing_budget,omitempty"`
}

// OperationsDecision invests in production capacity and quality control.
type OperationsDecision struct {
	CapacityInvestment float64 `json:"capacity_investment"`
	QualityInvestment  float64 `json:"quality_investment"`
}

// CorporateDecision invests in sustainability, CSR, employee programs
// and brand building.
type CorporateDecision struct {
	SustainabilityInvestment float64 `json:"sustainability_investment"`
	CSRInvestment            float64 `json:"csr_investment"`
	EmployeeInvestment       float64 `json:"employee_investment"`
	BrandInvestment          float64 `json:"brand_investment"`
}

// Normalize replaces malformed numeric fields (negative, NaN or Inf
// spends) with zero so a bad field degrades to "no change" instead of
// rejecting the whole submission.
func (d *Decisions) Normalize() {
	if d == nil {
		return
	}
	if d.RD != nil {
		d.RD.Budget = sanitizeSpend(d.RD.Budget)
		for area, alloc := range d.RD.Focus {
			d.RD.Focus[area] = sanitizeSpend(alloc)
		}
	}
	for _, pd := range d.Products {
		pd.Price = sanitizeOptional(pd.Price)
		pd.Quality = sanitizeOptional(pd.Quality)
		pd.Features = sanitizeOptional(pd.Features)
		pd.ProductionVolume = sanitizeOptional(pd.ProductionVolume)
		pd.MarketingBudget = sanitizeOptional(pd.MarketingBudget)
	}
	if d.Operations != nil {
		d.Operations.CapacityInvestment = sanitizeSpend(d.Operations.CapacityInvestment)
		d.Operations.QualityInvestment = sanitizeSpend(d.Operations.QualityInvestment)
	}
	if d.Corporate != nil {
		d.Corporate.SustainabilityInvestment = sanitizeSpend(d.Corporate.SustainabilityInvestment)
		d.Corporate.CSRInvestment = sanitizeSpend(d.Corporate.CSRInvestment)
		d.Corporate.EmployeeInvestment = sanitizeSpend(d.Corporate.EmployeeInvestment)
		d.Corporate.BrandInvestment = sanitizeSpend(d.Corporate.BrandInvestment)
	}
}

func sanitizeSpend(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func sanitizeOptional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return nil
	}
	return v
}

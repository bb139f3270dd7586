package types

// Company impact field names accepted by the event system.
const (
	ImpactCapital              = "capital"
	ImpactRDCapability         = "r_d_capability"
	ImpactProductionCapacity   = "production_capacity"
	ImpactBrandStrength        = "brand_strength"
	ImpactQualityControl       = "quality_control"
	ImpactCustomerSatisfaction = "customer_satisfaction"
	ImpactInnovationIndex      = "innovation_index"
	ImpactEnvironmentalImpact  = "environmental_impact"
	ImpactMarketShare          = "market_share"
)

// Event is an immutable, round-scoped perturbation of market and company
// state. Applied exactly once; retained in the game's event log.
type Event struct {
	ID          string `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Round       int    `json:"round"`

	// Market impacts keyed by field: total_market_size and segment_*
	// entries are multiplicative deltas, trend/factor entries and
	// market_growth_rate are additive.
	Market map[string]float64 `json:"market,omitempty"`

	// Company impacts for all teams plus optional per-team overrides.
	Companies *CompanyImpacts `json:"companies,omitempty"`
}

// CompanyImpacts holds the "all teams" impact map and per-team override
// maps. Overrides take precedence field by field.
type CompanyImpacts struct {
	All   map[string]float64            `json:"all,omitempty"`
	Teams map[string]map[string]float64 `json:"teams,omitempty"`
}

// For resolves the effective impact map for one team: the "all" map with
// the team's overrides applied on top.
func (ci *CompanyImpacts) For(teamID string) map[string]float64 {
	if ci == nil {
		return nil
	}
	merged := make(map[string]float64, len(ci.All))
	for field, delta := range ci.All {
		merged[field] = delta
	}
	for field, delta := range ci.Teams[teamID] {
		merged[field] = delta
	}
	return merged
}

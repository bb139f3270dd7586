package types

// Trend and external-factor keys used by the market model and the event
// system. Impacts address these fields by name.
const (
	TrendCameraImportance         = "camera_importance"
	TrendBatteryImportance        = "battery_importance"
	TrendProcessorImportance      = "processor_importance"
	TrendDisplayImportance        = "display_importance"
	TrendSoftwareImportance       = "software_importance"
	TrendSustainabilityImportance = "sustainability_importance"
	TrendInnovationPreference     = "innovation_preference"

	FactorEconomicStrength      = "economic_strength"
	FactorTechnologyAdvancement = "technology_advancement"
	FactorCompetitiveIntensity  = "competitive_intensity"
	FactorRegulatoryPressure    = "regulatory_pressure"
)

// Market is the shared environment all companies compete in. Segment
// sizes always sum to 1.0 after any mutation.
type Market struct {
	CurrentRound    int                 `json:"current_round"`
	TotalMarketSize float64             `json:"total_market_size"`
	GrowthRate      float64             `json:"market_growth_rate"`
	Segments        map[string]*Segment `json:"segments"`
	Trends          map[string]float64  `json:"trends"`
	ExternalFactors map[string]float64  `json:"external_factors"`
}

// Segment describes one market tier: its share of total demand, how its
// buyers weigh price/quality/features/brand, and its price band.
type Segment struct {
	Size              float64    `json:"size"`
	PriceSensitivity  float64    `json:"price_sensitivity"`
	QualityImportance float64    `json:"quality_importance"`
	FeatureImportance float64    `json:"feature_importance"`
	BrandImportance   float64    `json:"brand_importance"`
	AvgPrice          float64    `json:"avg_price"`
	PriceRange        [2]float64 `json:"price_range"`
}

// MarketReport is the per-round market summary shown to teams and the
// admin, including narrative insights.
type MarketReport struct {
	Round           int                 `json:"round"`
	TotalMarketSize float64             `json:"total_market_size"`
	GrowthRate      float64             `json:"market_growth_rate"`
	Segments        map[string]*Segment `json:"segments"`
	Trends          map[string]float64  `json:"trends"`
	ExternalFactors map[string]float64  `json:"external_factors"`
	Insights        []string            `json:"insights"`
}

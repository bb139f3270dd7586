package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/user/strategy-masters/internal/types"
)

// Two events per round once the late game starts.
const lateGameEventRound = 6

// Late-game templates join the catalog after this round.
const lateGameCatalogRound = 5

type eventTemplate struct {
	title       string
	description string
	market      map[string]float64
	all         map[string]float64
}

// The fixed event catalog. Market deltas on total_market_size and
// segment_* entries are multiplicative; everything else is additive with
// per-field clamping at application time.
var eventCatalog = []eventTemplate{
	{
		title:       "Breakthrough in Battery Technology",
		description: "A major breakthrough in battery technology has been announced, potentially doubling smartphone battery life. Companies with strong R&D capabilities can capitalize on this innovation.",
		market:      map[string]float64{types.TrendBatteryImportance: 0.2, types.TrendInnovationPreference: 0.1},
		all:         map[string]float64{types.ImpactRDCapability: 5},
	},
	{
		title:       "Revolutionary Display Technology",
		description: "A new display technology has emerged that offers better resolution, lower power consumption, and improved durability. Early adopters may gain significant market advantage.",
		market:      map[string]float64{types.TrendDisplayImportance: 0.15, types.TrendInnovationPreference: 0.1},
		all:         map[string]float64{types.ImpactInnovationIndex: 5},
	},
	{
		title:       "Economic Downturn",
		description: "A global economic slowdown is affecting consumer spending. Budget-conscious consumers are delaying smartphone upgrades and seeking more affordable options.",
		market:      map[string]float64{types.FactorEconomicStrength: -0.2, "segment_budget": 0.15, "segment_premium": -0.1},
		all:         map[string]float64{types.ImpactCapital: -0.05},
	},
	{
		title:       "Economic Boom",
		description: "Strong economic growth has increased consumer spending power. Premium smartphone sales are expected to rise as consumers are willing to spend more on high-end devices.",
		market:      map[string]float64{types.FactorEconomicStrength: 0.2, "segment_premium": 0.15, "segment_budget": -0.1},
		all:         map[string]float64{types.ImpactCapital: 0.05},
	},
	{
		title:       "New Environmental Regulations",
		description: "Governments worldwide have introduced stricter environmental regulations for electronics manufacturing. Companies must invest in sustainable practices or face penalties.",
		market:      map[string]float64{types.TrendSustainabilityImportance: 0.15, types.FactorRegulatoryPressure: 0.2},
		all:         map[string]float64{types.ImpactEnvironmentalImpact: -10},
	},
	{
		title:       "Data Privacy Legislation",
		description: "New data privacy laws require smartphone manufacturers to implement additional security features. Companies with strong software capabilities will adapt more easily.",
		market:      map[string]float64{types.TrendSoftwareImportance: 0.1, types.FactorRegulatoryPressure: 0.15},
		all:         map[string]float64{types.ImpactRDCapability: -5},
	},
	{
		title:       "Component Shortage",
		description: "A global shortage of key smartphone components is affecting production capacity across the industry. Companies with strong supplier relationships may be less impacted.",
		market:      map[string]float64{"total_market_size": -0.1},
		all:         map[string]float64{types.ImpactProductionCapacity: -0.15},
	},
	{
		title:       "New Manufacturing Technology",
		description: "A new manufacturing process has been developed that significantly reduces production costs. Companies that invest in this technology can improve their cost structure.",
		market:      map[string]float64{types.FactorCompetitiveIntensity: 0.1},
		all:         map[string]float64{types.ImpactProductionCapacity: 0.1},
	},
	{
		title:       "Camera-Focused Consumer Trend",
		description: "Social media trends have increased consumer demand for smartphones with exceptional camera capabilities. Companies with strong camera technology will benefit.",
		market:      map[string]float64{types.TrendCameraImportance: 0.2},
		all:         map[string]float64{types.ImpactCustomerSatisfaction: 5},
	},
	{
		title:       "Gaming Smartphone Boom",
		description: "Mobile gaming is experiencing explosive growth, driving demand for smartphones with powerful processors and gaming features.",
		market:      map[string]float64{types.TrendProcessorImportance: 0.15, "segment_premium": 0.05},
		all:         map[string]float64{types.ImpactInnovationIndex: 5},
	},
}

var lateGameCatalog = []eventTemplate{
	{
		title:       "Disruptive New Competitor",
		description: "A well-funded startup has entered the market with a revolutionary smartphone concept that's gaining significant attention.",
		market:      map[string]float64{types.FactorCompetitiveIntensity: 0.2, "total_market_size": 0.05, types.TrendInnovationPreference: 0.1},
		all:         map[string]float64{types.ImpactMarketShare: -0.05, types.ImpactBrandStrength: -5},
	},
	{
		title:       "Industry Consolidation",
		description: "Several smaller smartphone manufacturers have merged or been acquired, intensifying competition among the remaining players.",
		market:      map[string]float64{types.FactorCompetitiveIntensity: 0.15, "total_market_size": -0.05},
		all:         map[string]float64{types.ImpactMarketShare: 0.05},
	},
}

// GenerateEvents draws this round's events from the catalog: one per
// round, two once the late game begins.
func GenerateEvents(round int, roller *Roller) []*types.Event {
	catalog := eventCatalog
	if round > lateGameCatalogRound {
		catalog = append(append([]eventTemplate{}, eventCatalog...), lateGameCatalog...)
	}

	count := 1
	if round >= lateGameEventRound {
		count = 2
	}

	events := make([]*types.Event, 0, count)
	for i := 0; i < count; i++ {
		template := catalog[roller.Intn(len(catalog))]
		events = append(events, &types.Event{
			ID:          fmt.Sprintf("event_%d_%04d", round, 1000+roller.Intn(9000)),
			Title:       template.title,
			Description: template.description,
			Round:       round,
			Market:      template.market,
			Companies:   &types.CompanyImpacts{All: template.all},
		})
	}
	return events
}

// ApplyEvent mutates market and company state with the event's impacts.
// Segment sizes are renormalized afterwards if any were touched.
func ApplyEvent(e *types.Event, g *types.Game) {
	segmentTouched := false
	for _, field := range sortedKeys(e.Market) {
		delta := e.Market[field]
		switch {
		case field == "total_market_size":
			g.Market.TotalMarketSize *= 1 + delta
		case field == "market_growth_rate":
			g.Market.GrowthRate += delta
		case strings.HasPrefix(field, "segment_"):
			name := strings.TrimPrefix(field, "segment_")
			if segment, ok := g.Market.Segments[name]; ok {
				segment.Size *= 1 + delta
				segmentTouched = true
			}
		default:
			if _, ok := g.Market.Trends[field]; ok {
				g.Market.Trends[field] = clampRange(g.Market.Trends[field]+delta, 0.1, 0.9)
			} else if _, ok := g.Market.ExternalFactors[field]; ok {
				g.Market.ExternalFactors[field] = clampRange(g.Market.ExternalFactors[field]+delta, 0.1, 1.0)
			}
		}
	}
	if segmentTouched {
		normalizeSegments(g.Market)
	}

	if e.Companies == nil {
		return
	}
	for _, teamID := range sortedTeamIDs(g.Teams) {
		company := g.Teams[teamID]
		impacts := e.Companies.For(teamID)
		for _, field := range sortedKeys(impacts) {
			delta := impacts[field]
			switch field {
			case types.ImpactCapital:
				company.Capital *= 1 + delta
			case types.ImpactProductionCapacity:
				company.ProductionCapacity *= 1 + delta
			case types.ImpactRDCapability:
				company.RDCapability = clampScale(company.RDCapability + delta)
			case types.ImpactBrandStrength:
				company.BrandStrength = clampScale(company.BrandStrength + delta)
			case types.ImpactQualityControl:
				company.QualityControl = clampScale(company.QualityControl + delta)
			case types.ImpactCustomerSatisfaction:
				company.CustomerSatisfaction = clampScale(company.CustomerSatisfaction + delta)
			case types.ImpactInnovationIndex:
				company.InnovationIndex = clampScale(company.InnovationIndex + delta)
			case types.ImpactEnvironmentalImpact:
				company.EnvironmentalImpact = clampScale(company.EnvironmentalImpact + delta)
			case types.ImpactMarketShare:
				company.MarketShare = clampRange(company.MarketShare+delta, 0, 1)
			}
		}
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedTeamIDs(teams map[string]*types.Company) []string {
	ids := make([]string, 0, len(teams))
	for id := range teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package game

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/user/strategy-masters/internal/types"
)

// Attractiveness blend weights. They sum to 1.0.
const (
	weightPrice          = 0.30
	weightQuality        = 0.25
	weightFeatures       = 0.20
	weightBrand          = 0.15
	weightMarketing      = 0.10
	weightInnovation     = 0.05
	weightSustainability = 0.05

	// Marketing spend above this ceiling buys no additional effect.
	marketingCeiling = 50_000_000
)

// NewMarket creates the shared market with its fixed initial segments,
// trends and external factors.
func NewMarket() *types.Market {
	return &types.Market{
		TotalMarketSize: 10_000_000,
		GrowthRate:      0.05,
		Segments: map[string]*types.Segment{
			types.SegmentPremium: {
				Size:              0.2,
				PriceSensitivity:  0.3,
				QualityImportance: 0.8,
				FeatureImportance: 0.9,
				BrandImportance:   0.7,
				AvgPrice:          999,
				PriceRange:        [2]float64{699, 1499},
			},
			types.SegmentMidRange: {
				Size:              0.5,
				PriceSensitivity:  0.6,
				QualityImportance: 0.6,
				FeatureImportance: 0.6,
				BrandImportance:   0.5,
				AvgPrice:          499,
				PriceRange:        [2]float64{299, 699},
			},
			types.SegmentBudget: {
				Size:              0.3,
				PriceSensitivity:  0.9,
				QualityImportance: 0.4,
				FeatureImportance: 0.3,
				BrandImportance:   0.3,
				AvgPrice:          199,
				PriceRange:        [2]float64{99, 299},
			},
		},
		Trends: map[string]float64{
			types.TrendCameraImportance:         0.5,
			types.TrendBatteryImportance:        0.6,
			types.TrendProcessorImportance:      0.7,
			types.TrendDisplayImportance:        0.5,
			types.TrendSoftwareImportance:       0.6,
			types.TrendSustainabilityImportance: 0.4,
			types.TrendInnovationPreference:     0.5,
		},
		ExternalFactors: map[string]float64{
			types.FactorEconomicStrength:      0.7,
			types.FactorTechnologyAdvancement: 0.5,
			types.FactorCompetitiveIntensity:  0.6,
			types.FactorRegulatoryPressure:    0.4,
		},
	}
}

// SettleMarket allocates each segment's demand across the companies
// competing in it and returns the round's settlement. Companies with no
// active positive-volume offering anywhere get no entry.
func SettleMarket(m *types.Market, companies map[string]*types.Company) types.Settlement {
	settlement := types.Settlement{}

	segmentUnits := make(map[string]int, len(m.Segments))
	for name, segment := range m.Segments {
		segmentUnits[name] = int(m.TotalMarketSize * segment.Size)
	}

	for _, segmentName := range types.SegmentOrder {
		segment := m.Segments[segmentName]

		competitors := competitorsIn(companies, segmentName)
		if len(competitors) == 0 {
			continue
		}

		scores := make(map[string]float64, len(competitors))
		totalAttractiveness := 0.0
		priceScores := make(map[string]float64, len(competitors))
		qualityScores := make(map[string]float64, len(competitors))
		for _, teamID := range competitors {
			company := companies[teamID]
			product := company.Products[segmentName]

			priceScore := math.Pow(pricePosition(product.Price, segment.PriceRange), segment.PriceSensitivity)
			qualityScore := math.Pow(product.Quality/100, segment.QualityImportance)
			featureScore := math.Pow(product.Features/100, segment.FeatureImportance)
			brandScore := math.Pow(company.BrandStrength/100, segment.BrandImportance)
			marketingEffect := math.Min(1, product.MarketingBudget/marketingCeiling)
			innovationBonus := company.InnovationIndex / 100 * m.Trends[types.TrendInnovationPreference]
			sustainabilityBonus := company.EnvironmentalImpact / 100 * m.Trends[types.TrendSustainabilityImportance]

			attractiveness := priceScore*weightPrice +
				qualityScore*weightQuality +
				featureScore*weightFeatures +
				brandScore*weightBrand +
				marketingEffect*weightMarketing +
				innovationBonus*weightInnovation +
				sustainabilityBonus*weightSustainability

			scores[teamID] = attractiveness
			totalAttractiveness += attractiveness
			priceScores[teamID] = priceScore
			qualityScores[teamID] = qualityScore
		}

		shares := make(map[string]float64, len(competitors))
		if totalAttractiveness > 0 {
			for teamID, attractiveness := range scores {
				shares[teamID] = attractiveness / totalAttractiveness
			}
		} else {
			equal := 1.0 / float64(len(competitors))
			for _, teamID := range competitors {
				shares[teamID] = equal
			}
		}

		for _, teamID := range competitors {
			company := companies[teamID]
			product := company.Products[segmentName]
			share := shares[teamID]

			potential := int(float64(segmentUnits[segmentName]) * share)
			sold := potential
			if volume := int(product.ProductionVolume); volume < sold {
				sold = volume
			}

			result, ok := settlement[teamID]
			if !ok {
				result = &types.CompanyResult{Sales: map[string]*types.SegmentSales{}}
				settlement[teamID] = result
			}
			result.Sales[segmentName] = &types.SegmentSales{
				UnitsSold:   sold,
				Revenue:     float64(sold) * product.Price,
				MarketShare: share,
			}

			// Satisfaction blends value for money, quality and whether
			// the company could actually supply the demand it won.
			supplyRatio := 1.0
			if potential > 0 {
				supplyRatio = math.Min(1, product.ProductionVolume/float64(potential))
			}
			change := (priceScores[teamID]-0.5)*3 +
				(qualityScores[teamID]-0.5)*5 +
				(supplyRatio-0.5)*2*2
			result.SatisfactionChange += change / 10 * 5
		}
	}

	// Overall share uses total market units as the denominator, not the
	// demand a company actually contested. Load-bearing for scoring.
	totalUnits := 0
	for _, units := range segmentUnits {
		totalUnits += units
	}
	for _, result := range settlement {
		sold := 0
		for _, sales := range result.Sales {
			sold += sales.UnitsSold
		}
		if totalUnits > 0 {
			result.MarketShare = float64(sold) / float64(totalUnits)
		}
	}

	return settlement
}

// competitorsIn returns, in sorted order, the teams with an active
// positive-volume product in the segment.
func competitorsIn(companies map[string]*types.Company, segment string) []string {
	ids := make([]string, 0, len(companies))
	for teamID, company := range companies {
		product, ok := company.Products[segment]
		if ok && product.Active && product.ProductionVolume > 0 {
			ids = append(ids, teamID)
		}
	}
	sort.Strings(ids)
	return ids
}

// pricePosition maps a price onto [0,1] within the segment band, 1 at
// the bottom of the band. A degenerate band is neutral.
func pricePosition(price float64, band [2]float64) float64 {
	if band[1] <= band[0] {
		return 0.5
	}
	pos := (band[1] - price) / (band[1] - band[0])
	return math.Max(0, math.Min(1, pos))
}

// AdvanceMarket moves macro conditions into the given round: quarterly
// growth, mid/late-game segment and trend drift, and random shifts in
// the external factors.
func AdvanceMarket(m *types.Market, round int, roller *Roller) {
	m.CurrentRound = round

	m.TotalMarketSize *= 1 + m.GrowthRate/4

	if round > 5 {
		m.Segments[types.SegmentPremium].Size += 0.01
		m.Segments[types.SegmentMidRange].Size -= 0.005
		m.Segments[types.SegmentBudget].Size -= 0.005
	}
	if round > 8 {
		m.Trends[types.TrendInnovationPreference] += 0.1
		m.Trends[types.TrendSustainabilityImportance] += 0.1
	}

	normalizeSegments(m)

	m.ExternalFactors[types.FactorEconomicStrength] = clampRange(
		m.ExternalFactors[types.FactorEconomicStrength]+roller.Uniform(-0.1, 0.1), 0.1, 1.0)
	m.ExternalFactors[types.FactorTechnologyAdvancement] = math.Min(1.0,
		m.ExternalFactors[types.FactorTechnologyAdvancement]+0.05)
	m.ExternalFactors[types.FactorCompetitiveIntensity] = clampRange(
		m.ExternalFactors[types.FactorCompetitiveIntensity]+roller.Uniform(-0.05, 0.15), 0.3, 1.0)

	// Sorted keys so the drift consumes randomness in a stable order.
	trendKeys := make([]string, 0, len(m.Trends))
	for key := range m.Trends {
		trendKeys = append(trendKeys, key)
	}
	sort.Strings(trendKeys)
	for _, key := range trendKeys {
		m.Trends[key] = clampRange(m.Trends[key]+roller.Uniform(-0.05, 0.05), 0.1, 0.9)
	}
}

// normalizeSegments rescales segment sizes to sum to 1.0, falling back
// to an equal split when the sizes have collapsed to nothing.
func normalizeSegments(m *types.Market) {
	total := 0.0
	for _, segment := range m.Segments {
		total += segment.Size
	}
	if total > 0 {
		for _, segment := range m.Segments {
			segment.Size /= total
		}
		return
	}
	equal := 1.0 / float64(len(m.Segments))
	for _, segment := range m.Segments {
		segment.Size = equal
	}
}

// GenerateMarketReport summarizes current market conditions with
// narrative insights for the given round. The report copies every map so
// it stays stable while the live market keeps moving.
func GenerateMarketReport(m *types.Market, round int) *types.MarketReport {
	segments := make(map[string]*types.Segment, len(m.Segments))
	for name, segment := range m.Segments {
		cp := *segment
		segments[name] = &cp
	}
	return &types.MarketReport{
		Round:           round,
		TotalMarketSize: m.TotalMarketSize,
		GrowthRate:      m.GrowthRate,
		Segments:        segments,
		Trends:          copyFloatMap(m.Trends),
		ExternalFactors: copyFloatMap(m.ExternalFactors),
		Insights:        marketInsights(m, round),
	}
}

func copyFloatMap(src map[string]float64) map[string]float64 {
	dup := make(map[string]float64, len(src))
	for key, value := range src {
		dup[key] = value
	}
	return dup
}

func marketInsights(m *types.Market, round int) []string {
	var insights []string

	if m.ExternalFactors[types.FactorEconomicStrength] > 0.7 {
		insights = append(insights, "Consumer spending is strong, premium segment shows growth potential.")
	} else if m.ExternalFactors[types.FactorEconomicStrength] < 0.4 {
		insights = append(insights, "Economic downturn is affecting consumer spending. Budget segment may see increased demand.")
	}

	if m.ExternalFactors[types.FactorTechnologyAdvancement] > 0.7 {
		insights = append(insights, "Rapid technological advancement is creating opportunities for innovation.")
	}
	if m.ExternalFactors[types.FactorCompetitiveIntensity] > 0.8 {
		insights = append(insights, "Market is highly competitive. Differentiation is crucial for success.")
	}

	if trend := strongestTrend(m); trend != "" {
		insights = append(insights, fmt.Sprintf("Consumer interest in %s is particularly strong.",
			strings.ReplaceAll(trend, "_", " ")))
	}
	if name, segment := largestSegment(m); segment != nil {
		insights = append(insights, fmt.Sprintf("The %s segment represents %d%% of the market.",
			name, int(segment.Size*100)))
	}

	switch round {
	case 1:
		insights = append(insights, "Market is in early development stage with room for all players to establish position.")
	case 5:
		insights = append(insights, "Mid-game market consolidation is beginning. Strategic positioning is crucial.")
	case 8:
		insights = append(insights, "Late-game market maturity approaching. Innovation and sustainability gaining importance.")
	}

	return insights
}

func strongestTrend(m *types.Market) string {
	best := ""
	bestValue := math.Inf(-1)
	keys := make([]string, 0, len(m.Trends))
	for key := range m.Trends {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if m.Trends[key] > bestValue {
			best, bestValue = key, m.Trends[key]
		}
	}
	return best
}

func largestSegment(m *types.Market) (string, *types.Segment) {
	bestName := ""
	var best *types.Segment
	for _, name := range types.SegmentOrder {
		segment := m.Segments[name]
		if segment != nil && (best == nil || segment.Size > best.Size) {
			bestName, best = name, segment
		}
	}
	return bestName, best
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

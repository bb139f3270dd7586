package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/strategy-masters/internal/types"
)

func TestNewMarketDefaults(t *testing.T) {
	m := NewMarket()

	assert.Equal(t, float64(10_000_000), m.TotalMarketSize)
	assert.Equal(t, 0.05, m.GrowthRate)
	require.Len(t, m.Segments, 3)

	total := 0.0
	for _, segment := range m.Segments {
		total += segment.Size
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Equal(t, 0.5, m.Segments[types.SegmentMidRange].Size)
	assert.Equal(t, [2]float64{299, 699}, m.Segments[types.SegmentMidRange].PriceRange)
}

func TestSettleMarketSkipsEmptySegments(t *testing.T) {
	m := NewMarket()
	companies := map[string]*types.Company{
		"team_1": NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity),
		"team_2": NewCompany("team_2", "Company 2", StartingCapital, StartingCapacity),
	}

	settlement := SettleMarket(m, companies)

	// Nobody offers premium or budget products, so those segments simply
	// do not appear in anyone's sales.
	require.Len(t, settlement, 2)
	for _, result := range settlement {
		require.Len(t, result.Sales, 1)
		_, hasMid := result.Sales[types.SegmentMidRange]
		assert.True(t, hasMid)
	}
}

func TestSettleMarketNoCompetitorsAnywhere(t *testing.T) {
	m := NewMarket()
	c := NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity)
	c.Products[types.SegmentMidRange].Active = false

	settlement := SettleMarket(m, map[string]*types.Company{"team_1": c})

	_, ok := settlement["team_1"]
	assert.False(t, ok, "company with no active offering gets no settlement entry")
}

func TestLowerPriceWinsShare(t *testing.T) {
	m := NewMarket()
	cheap := NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity)
	pricey := NewCompany("team_2", "Company 2", StartingCapital, StartingCapacity)
	cheap.Products[types.SegmentMidRange].Price = 399
	pricey.Products[types.SegmentMidRange].Price = 599

	settlement := SettleMarket(m, map[string]*types.Company{
		"team_1": cheap,
		"team_2": pricey,
	})

	cheapShare := settlement["team_1"].Sales[types.SegmentMidRange].MarketShare
	priceyShare := settlement["team_2"].Sales[types.SegmentMidRange].MarketShare
	assert.Greater(t, cheapShare, priceyShare)
	assert.InDelta(t, 1.0, cheapShare+priceyShare, 1e-9)
}

func TestSettleMarketEqualSplitOnZeroAttractiveness(t *testing.T) {
	m := NewMarket()
	m.Trends[types.TrendInnovationPreference] = 0
	m.Trends[types.TrendSustainabilityImportance] = 0

	companies := map[string]*types.Company{}
	for _, teamID := range []string{"team_1", "team_2"} {
		c := NewCompany(teamID, teamID, StartingCapital, StartingCapacity)
		c.BrandStrength = 0
		c.InnovationIndex = 0
		c.EnvironmentalImpact = 0
		p := c.Products[types.SegmentMidRange]
		p.Price = 699 // top of the band, zero price appeal
		p.Quality = 0
		p.Features = 0
		p.MarketingBudget = 0
		companies[teamID] = c
	}

	settlement := SettleMarket(m, companies)
	assert.InDelta(t, 0.5, settlement["team_1"].Sales[types.SegmentMidRange].MarketShare, 1e-9)
	assert.InDelta(t, 0.5, settlement["team_2"].Sales[types.SegmentMidRange].MarketShare, 1e-9)
}

func TestSettleMarketCapsSalesAtProduction(t *testing.T) {
	m := NewMarket()
	c := NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity)
	c.Products[types.SegmentMidRange].ProductionVolume = 50_000

	settlement := SettleMarket(m, map[string]*types.Company{"team_1": c})

	sales := settlement["team_1"].Sales[types.SegmentMidRange]
	// The sole competitor wins the whole 5,000,000-unit segment but can
	// only ship what it produced.
	assert.InDelta(t, 1.0, sales.MarketShare, 1e-9)
	assert.Equal(t, 50_000, sales.UnitsSold)
	assert.InDelta(t, 50_000*499.0, sales.Revenue, 1e-6)

	// Undersupply drags satisfaction down.
	assert.Negative(t, settlement["team_1"].SatisfactionChange)
}

func TestOverallShareUsesTotalMarketUnits(t *testing.T) {
	m := NewMarket()
	c := NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity)
	c.Products[types.SegmentMidRange].ProductionVolume = 10_000_000

	settlement := SettleMarket(m, map[string]*types.Company{"team_1": c})

	// Sole supplier of the mid-range segment (50% of a 10M-unit market);
	// overall share is measured against the whole market.
	assert.InDelta(t, 0.5, settlement["team_1"].MarketShare, 1e-6)
}

func TestPricePosition(t *testing.T) {
	band := [2]float64{299, 699}

	assert.InDelta(t, 1.0, pricePosition(299, band), 1e-9)
	assert.InDelta(t, 0.0, pricePosition(699, band), 1e-9)
	assert.InDelta(t, 0.5, pricePosition(499, band), 1e-9)

	// Prices outside the band clamp instead of going out of range.
	assert.InDelta(t, 1.0, pricePosition(100, band), 1e-9)
	assert.InDelta(t, 0.0, pricePosition(900, band), 1e-9)

	// Degenerate band is neutral.
	assert.InDelta(t, 0.5, pricePosition(500, [2]float64{500, 500}), 1e-9)
}

func TestAdvanceMarketGrowth(t *testing.T) {
	m := NewMarket()
	roller := NewSeededRoller(7)

	AdvanceMarket(m, 2, roller)

	assert.Equal(t, 2, m.CurrentRound)
	assert.InDelta(t, 10_000_000*1.0125, m.TotalMarketSize, 1e-3)
}

func TestAdvanceMarketKeepsSegmentsNormalized(t *testing.T) {
	m := NewMarket()
	roller := NewSeededRoller(7)

	for round := 2; round <= 12; round++ {
		AdvanceMarket(m, round, roller)

		total := 0.0
		for _, segment := range m.Segments {
			total += segment.Size
		}
		assert.InDelta(t, 1.0, total, 1e-9, "round %d", round)
	}
}

func TestAdvanceMarketBoundsDrift(t *testing.T) {
	m := NewMarket()
	roller := NewSeededRoller(99)

	for round := 2; round <= 20; round++ {
		AdvanceMarket(m, round, roller)
	}

	for name, value := range m.Trends {
		assert.GreaterOrEqual(t, value, 0.1, name)
		assert.LessOrEqual(t, value, 0.9, name)
	}
	for name, value := range m.ExternalFactors {
		assert.GreaterOrEqual(t, value, 0.1, name)
		assert.LessOrEqual(t, value, 1.0, name)
	}
}

func TestGenerateMarketReport(t *testing.T) {
	m := NewMarket()

	report := GenerateMarketReport(m, 1)

	assert.Equal(t, 1, report.Round)
	assert.Equal(t, m.TotalMarketSize, report.TotalMarketSize)
	require.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights,
		"Market is in early development stage with room for all players to establish position.")
	// The mid-range segment starts as the largest.
	assert.Contains(t, report.Insights, "The mid_range segment represents 50% of the market.")
}

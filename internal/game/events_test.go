package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/strategy-masters/internal/types"
)

func newEventTestGame() *types.Game {
	return &types.Game{
		ID:     "game_test",
		Market: NewMarket(),
		Teams: map[string]*types.Company{
			"team_1": NewCompany("team_1", "Company 1", StartingCapital, StartingCapacity),
			"team_2": NewCompany("team_2", "Company 2", StartingCapital, StartingCapacity),
		},
	}
}

func TestGenerateEventsCount(t *testing.T) {
	roller := NewSeededRoller(1)

	early := GenerateEvents(2, roller)
	require.Len(t, early, 1)
	assert.Equal(t, 2, early[0].Round)
	assert.True(t, strings.HasPrefix(early[0].ID, "event_2_"))
	assert.NotEmpty(t, early[0].Title)
	assert.NotEmpty(t, early[0].Description)

	late := GenerateEvents(6, roller)
	require.Len(t, late, 2)
	for _, event := range late {
		assert.Equal(t, 6, event.Round)
	}
}

func TestGenerateEventsDeterministicWithSeed(t *testing.T) {
	a := GenerateEvents(3, NewSeededRoller(123))
	b := GenerateEvents(3, NewSeededRoller(123))

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Title, b[0].Title)
	assert.Equal(t, a[0].ID, b[0].ID)
}

func TestApplyEventMarketImpacts(t *testing.T) {
	g := newEventTestGame()

	event := &types.Event{
		ID:    "event_2_0001",
		Round: 2,
		Market: map[string]float64{
			"total_market_size":          -0.1,
			"market_growth_rate":         0.01,
			types.TrendBatteryImportance: 0.5, // clamps at 0.9
			types.FactorEconomicStrength: -0.9,
		},
	}
	ApplyEvent(event, g)

	assert.InDelta(t, 9_000_000, g.Market.TotalMarketSize, 1e-3)
	assert.InDelta(t, 0.06, g.Market.GrowthRate, 1e-9)
	assert.InDelta(t, 0.9, g.Market.Trends[types.TrendBatteryImportance], 1e-9)
	assert.InDelta(t, 0.1, g.Market.ExternalFactors[types.FactorEconomicStrength], 1e-9)
}

func TestApplyEventRenormalizesSegments(t *testing.T) {
	g := newEventTestGame()

	ApplyEvent(&types.Event{
		ID:     "event_2_0002",
		Round:  2,
		Market: map[string]float64{"segment_premium": 0.15, "segment_budget": -0.1},
	}, g)

	total := 0.0
	for _, segment := range g.Market.Segments {
		total += segment.Size
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	// Premium grew relative to budget.
	assert.Greater(t, g.Market.Segments[types.SegmentPremium].Size, 0.2)
	assert.Less(t, g.Market.Segments[types.SegmentBudget].Size, 0.3)
}

func TestApplyEventCompanyImpacts(t *testing.T) {
	g := newEventTestGame()
	g.Teams["team_1"].MarketShare = 0.02

	ApplyEvent(&types.Event{
		ID:    "event_2_0003",
		Round: 2,
		Companies: &types.CompanyImpacts{
			All: map[string]float64{
				types.ImpactCapital:            -0.05,
				types.ImpactProductionCapacity: 0.1,
				types.ImpactRDCapability:       5,
				types.ImpactMarketShare:        -0.05,
			},
		},
	}, g)

	for _, company := range g.Teams {
		assert.InDelta(t, 475_000_000, company.Capital, 1e-3)
		assert.InDelta(t, 550_000, company.ProductionCapacity, 1e-6)
		assert.InDelta(t, 55.0, company.RDCapability, 1e-9)
	}
	// Shares floor at zero instead of going negative.
	assert.Zero(t, g.Teams["team_1"].MarketShare)
	assert.Zero(t, g.Teams["team_2"].MarketShare)
}

func TestApplyEventAttributeClamping(t *testing.T) {
	g := newEventTestGame()
	g.Teams["team_1"].EnvironmentalImpact = 5

	ApplyEvent(&types.Event{
		ID:    "event_2_0004",
		Round: 2,
		Companies: &types.CompanyImpacts{
			All: map[string]float64{
				types.ImpactEnvironmentalImpact: -10,
				types.ImpactInnovationIndex:     80,
			},
		},
	}, g)

	assert.Zero(t, g.Teams["team_1"].EnvironmentalImpact)
	assert.Equal(t, float64(40), g.Teams["team_2"].EnvironmentalImpact)
	assert.Equal(t, float64(100), g.Teams["team_1"].InnovationIndex)
}

func TestApplyEventPerTeamOverrides(t *testing.T) {
	g := newEventTestGame()

	ApplyEvent(&types.Event{
		ID:    "event_2_0005",
		Round: 2,
		Companies: &types.CompanyImpacts{
			All:   map[string]float64{types.ImpactCapital: 0.1},
			Teams: map[string]map[string]float64{"team_1": {types.ImpactCapital: -0.2}},
		},
	}, g)

	// team_1's override replaces the blanket impact, field by field.
	assert.InDelta(t, 400_000_000, g.Teams["team_1"].Capital, 1e-3)
	assert.InDelta(t, 550_000_000, g.Teams["team_2"].Capital, 1e-3)
}

func TestApplyEventUnknownFieldsIgnored(t *testing.T) {
	g := newEventTestGame()

	ApplyEvent(&types.Event{
		ID:     "event_2_0006",
		Round:  2,
		Market: map[string]float64{"no_such_field": 0.5, "segment_no_such": 0.5},
		Companies: &types.CompanyImpacts{
			All: map[string]float64{"no_such_field": 0.5},
		},
	}, g)

	fresh := NewMarket()
	assert.Equal(t, fresh.TotalMarketSize, g.Market.TotalMarketSize)
	assert.Equal(t, fresh.Trends, g.Market.Trends)
	assert.Equal(t, float64(StartingCapital), g.Teams["team_1"].Capital)
}

func TestEventCatalogValues(t *testing.T) {
	// Every template carries at least one market or company impact, and
	// the catalogs stay within the fields the applier understands.
	for _, template := range append(append([]eventTemplate{}, eventCatalog...), lateGameCatalog...) {
		assert.NotEmpty(t, template.title)
		assert.True(t, len(template.market) > 0 || len(template.all) > 0, template.title)
	}
	assert.Len(t, eventCatalog, 10)
	assert.Len(t, lateGameCatalog, 2)
}

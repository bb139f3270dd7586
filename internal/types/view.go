package types

// GameCredentials is returned once at game creation; codes are not
// recoverable through any other view.
type GameCredentials struct {
	GameID    string            `json:"game_id"`
	AdminCode string            `json:"admin_code"`
	TeamCodes map[string]string `json:"team_codes"`
}

// SubmitResult reports the outcome of a decision submission.
type SubmitResult struct {
	Round        int  `json:"round"`
	AllSubmitted bool `json:"all_submitted"`
}

// AdvanceResult reports the outcome of an admin round advance.
type AdvanceResult struct {
	Round    int  `json:"round"`
	Finished bool `json:"finished"`
}

// TeamView is the partial-information projection one team sees:
// its own full state, the market report, this round's events, and only
// public facts about competitors.
type TeamView struct {
	Round           int                        `json:"round"`
	TotalRounds     int                        `json:"total_rounds"`
	Company         *Company                   `json:"company"`
	Market          *MarketReport              `json:"market"`
	Events          []*Event                   `json:"events"`
	Competitors     map[string]*CompetitorInfo `json:"competitors"`
	PreviousResults *PreviousRoundResults      `json:"previous_results,omitempty"`
}

// CompetitorInfo is the public slice of a rival company's state.
type CompetitorInfo struct {
	Name          string  `json:"name"`
	MarketShare   float64 `json:"market_share"`
	BrandStrength float64 `json:"brand_strength"`
}

// PreviousRoundResults pairs a team's post-round snapshot with its slice
// of that round's settlement.
type PreviousRoundResults struct {
	CompanyState *Company       `json:"company_state,omitempty"`
	Settlement   *CompanyResult `json:"market_results,omitempty"`
}

// AdminView is the full game state for the facilitator.
type AdminView struct {
	GameID       string               `json:"game_id"`
	Round        int                  `json:"round"`
	TotalRounds  int                  `json:"total_rounds"`
	Started      bool                 `json:"started"`
	Finished     bool                 `json:"finished"`
	Teams        map[string]*Company  `json:"teams"`
	Market       *MarketReport        `json:"market"`
	Events       []*Event             `json:"events"`
	RoundResults map[int]*RoundRecord `json:"round_results"`
}

// TeamRanking is one row of the score leaderboard.
type TeamRanking struct {
	Rank                int     `json:"rank"`
	TeamID              string  `json:"team_id"`
	Name                string  `json:"name"`
	Score               float64 `json:"score"`
	FinancialScore      float64 `json:"financial_score"`
	MarketScore         float64 `json:"market_score"`
	InnovationScore     float64 `json:"innovation_score"`
	SustainabilityScore float64 `json:"sustainability_score"`
}

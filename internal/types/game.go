package types

// Game represents one simulation instance: the team roster, the shared
// market, the event log and the per-round records.
type Game struct {
	ID           string               `json:"game_id"`
	NumTeams     int                  `json:"num_teams"`
	NumRounds    int                  `json:"num_rounds"`
	CurrentRound int                  `json:"current_round"`
	Started      bool                 `json:"started"`
	Finished     bool                 `json:"finished"`
	Teams        map[string]*Company  `json:"teams"`
	Market       *Market              `json:"market"`
	Events       []*Event             `json:"events"`
	RoundResults map[int]*RoundRecord `json:"round_results"`
	TeamCodes    map[string]string    `json:"team_codes"`
	AdminCode    string               `json:"admin_code"`
}

// RoundRecord tracks one round: which teams have submitted, and once the
// round is finalized, the market settlement and post-round company states.
// Settlement must not carry omitempty: a round can finalize with an empty
// settlement (nobody offered anything) and the empty map is what marks it
// finalized across the storage round-trip.
type RoundRecord struct {
	Submissions   []string            `json:"submissions"`
	Settlement    Settlement          `json:"market_results"`
	CompanyStates map[string]*Company `json:"company_states,omitempty"`
}

// Finalized reports whether the round's settlement has already been
// computed and committed.
func (r *RoundRecord) Finalized() bool {
	return r != nil && r.Settlement != nil
}

// Clone returns a deep copy of the record, used by view projections so
// a round finalizing later can't mutate a view already handed out.
func (r *RoundRecord) Clone() *RoundRecord {
	if r == nil {
		return nil
	}
	dup := &RoundRecord{
		Submissions: append([]string(nil), r.Submissions...),
		Settlement:  r.Settlement.Clone(),
	}
	if r.CompanyStates != nil {
		dup.CompanyStates = make(map[string]*Company, len(r.CompanyStates))
		for teamID, company := range r.CompanyStates {
			dup.CompanyStates[teamID] = company.Clone()
		}
	}
	return dup
}

// HasSubmitted reports whether the given team is in the submission set.
func (r *RoundRecord) HasSubmitted(teamID string) bool {
	if r == nil {
		return false
	}
	for _, id := range r.Submissions {
		if id == teamID {
			return true
		}
	}
	return false
}

// Settlement is the outcome of one round's market allocation, keyed by
// team id. Teams with no active offering in any segment have no entry.
type Settlement map[string]*CompanyResult

// Clone returns a deep copy of the settlement. A nil settlement stays
// nil so the finalized marker survives the copy.
func (s Settlement) Clone() Settlement {
	if s == nil {
		return nil
	}
	dup := make(Settlement, len(s))
	for teamID, result := range s {
		dup[teamID] = result.Clone()
	}
	return dup
}

// CompanyResult is one company's share of a round's settlement.
type CompanyResult struct {
	Sales              map[string]*SegmentSales `json:"sales"`
	MarketShare        float64                  `json:"market_share"`
	SatisfactionChange float64                  `json:"customer_satisfaction_change"`
}

// Clone returns a deep copy of the result.
func (cr *CompanyResult) Clone() *CompanyResult {
	if cr == nil {
		return nil
	}
	dup := &CompanyResult{
		MarketShare:        cr.MarketShare,
		SatisfactionChange: cr.SatisfactionChange,
	}
	if cr.Sales != nil {
		dup.Sales = make(map[string]*SegmentSales, len(cr.Sales))
		for segment, sales := range cr.Sales {
			cp := *sales
			dup.Sales[segment] = &cp
		}
	}
	return dup
}

// SegmentSales records a company's outcome within a single segment.
type SegmentSales struct {
	UnitsSold   int     `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
	MarketShare float64 `json:"market_share"`
}

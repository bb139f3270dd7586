package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/strategy-masters/config"
	"github.com/user/strategy-masters/internal/interfaces"
	"github.com/user/strategy-masters/internal/types"
)

var _ interfaces.GameManager = (*GameManager)(nil)

// GameManager orchestrates every simulation running in this process.
// Each game id has its own lock; all mutating operations on a game
// (submission, finalize, force advance) and its view projections run
// under it, so the "all teams submitted, finalize now" check-and-act is
// atomic.
type GameManager struct {
	mu      sync.Mutex // guards games and locks
	games   map[string]*types.Game
	locks   map[string]*sync.Mutex
	storage Storage
	cfg     config.Config
	logger  *zap.Logger
	roller  *Roller
}

// NewGameManager creates a game manager backed by the given storage.
func NewGameManager(cfg config.Config, storage Storage) *GameManager {
	return &GameManager{
		games:   make(map[string]*types.Game),
		locks:   make(map[string]*sync.Mutex),
		storage: storage,
		cfg:     cfg,
		logger:  zap.NewNop(), // Will be set by the server
		roller:  NewRoller(),
	}
}

// SetLogger replaces the manager's logger.
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.logger = logger
}

// SetRoller replaces the random source, used by tests for reproducible
// event draws and market drift.
func (gm *GameManager) SetRoller(roller *Roller) {
	gm.roller = roller
}

// lockGame resolves a game (loading it from storage on first touch) and
// acquires its per-game lock. The returned unlock func must be called.
func (gm *GameManager) lockGame(gameID string) (*types.Game, func(), error) {
	gm.mu.Lock()
	g, ok := gm.games[gameID]
	if !ok {
		loaded, err := gm.storage.Load(gameID)
		if err != nil {
			gm.mu.Unlock()
			return nil, nil, err
		}
		gm.games[gameID] = loaded
		g = loaded
	}
	lock, ok := gm.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		gm.locks[gameID] = lock
	}
	gm.mu.Unlock()

	lock.Lock()
	return g, lock.Unlock, nil
}

// saveGame persists the current snapshot. Persistence failures surface
// as ErrInternal: the game mutated in memory but the write was lost.
func (gm *GameManager) saveGame(g *types.Game) error {
	if err := gm.storage.Save(g); err != nil {
		gm.logger.Error("Failed to save game state",
			zap.String("game_id", g.ID),
			zap.Error(err))
		return fmt.Errorf("%w: save failed: %v", ErrInternal, err)
	}
	return nil
}

// CreateGame initializes a new simulation: companies with fixed starting
// values, access codes, the shared market, round 1 open for submissions.
func (gm *GameManager) CreateGame(numTeams, numRounds int) (*types.GameCredentials, error) {
	if numTeams <= 0 || numRounds <= 0 {
		return nil, ErrInvalidGameSetup
	}

	g := &types.Game{
		ID:           "game_" + uuid.New().String(),
		NumTeams:     numTeams,
		NumRounds:    numRounds,
		CurrentRound: 1,
		Started:      true,
		Teams:        make(map[string]*types.Company, numTeams),
		Market:       NewMarket(),
		RoundResults: map[int]*types.RoundRecord{1: {}},
		TeamCodes:    make(map[string]string, numTeams),
	}

	for i := 1; i <= numTeams; i++ {
		teamID := fmt.Sprintf("team_%d", i)
		g.Teams[teamID] = NewCompany(teamID, fmt.Sprintf("Company %d", i),
			gm.cfg.Game.StartingCapital, gm.cfg.Game.StartingCapacity)
		g.TeamCodes[teamID] = gm.roller.Code(8)
	}
	g.AdminCode = gm.roller.Code(8)
	g.Market.CurrentRound = 1

	gm.mu.Lock()
	gm.games[g.ID] = g
	gm.locks[g.ID] = &sync.Mutex{}
	gm.mu.Unlock()

	if err := gm.saveGame(g); err != nil {
		return nil, err
	}

	gm.logger.Info("Created game",
		zap.String("game_id", g.ID),
		zap.Int("num_teams", numTeams),
		zap.Int("num_rounds", numRounds))

	teamCodes := make(map[string]string, numTeams)
	for teamID, code := range g.TeamCodes {
		teamCodes[teamID] = code
	}
	return &types.GameCredentials{
		GameID:    g.ID,
		AdminCode: g.AdminCode,
		TeamCodes: teamCodes,
	}, nil
}

// SubmitDecisions processes one team's payload for the current round.
// When the submission completes the roster, the round finalizes
// synchronously before the call returns.
func (gm *GameManager) SubmitDecisions(gameID, teamID, teamCode string, decisions *types.Decisions) (*types.SubmitResult, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	company, ok := g.Teams[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}
	if !gm.storage.VerifyTeam(gameID, teamID, teamCode) {
		return nil, ErrUnauthorized
	}
	if g.Finished {
		return nil, ErrGameFinished
	}

	record := g.RoundResults[g.CurrentRound]
	if record == nil {
		record = &types.RoundRecord{}
		g.RoundResults[g.CurrentRound] = record
	}
	if record.HasSubmitted(teamID) {
		return nil, ErrAlreadySubmitted
	}

	round := g.CurrentRound
	ProcessDecisions(company, decisions, round)
	record.Submissions = append(record.Submissions, teamID)

	allSubmitted := len(record.Submissions) == g.NumTeams
	if allSubmitted {
		if err := gm.finalizeRound(g); err != nil {
			return nil, err
		}
	}

	if err := gm.saveGame(g); err != nil {
		return nil, err
	}

	gm.logger.Info("Decisions submitted",
		zap.String("game_id", gameID),
		zap.String("team_id", teamID),
		zap.Int("round", round),
		zap.Bool("all_submitted", allSubmitted))

	return &types.SubmitResult{
		Round:        g.CurrentRound,
		AllSubmitted: allSubmitted,
	}, nil
}

// AdvanceRound closes the current round on the admin's behalf. Without
// force it fails unless every team has submitted; with force, stragglers
// get an empty no-op payload before the round settles.
func (gm *GameManager) AdvanceRound(gameID, adminCode string, force bool) (*types.AdvanceResult, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !gm.storage.VerifyAdmin(gameID, adminCode) {
		return nil, ErrUnauthorized
	}
	if g.Finished {
		return nil, ErrGameFinished
	}

	record := g.RoundResults[g.CurrentRound]
	if record == nil {
		record = &types.RoundRecord{}
		g.RoundResults[g.CurrentRound] = record
	}

	if len(record.Submissions) < g.NumTeams {
		if !force {
			return nil, ErrRoundIncomplete
		}
		round := g.CurrentRound
		for _, teamID := range sortedTeamIDs(g.Teams) {
			if record.HasSubmitted(teamID) {
				continue
			}
			gm.logger.Info("Injecting empty decisions for force advance",
				zap.String("game_id", gameID),
				zap.String("team_id", teamID),
				zap.Int("round", round))
			ProcessDecisions(g.Teams[teamID], &types.Decisions{}, round)
			record.Submissions = append(record.Submissions, teamID)
		}
	}

	if err := gm.finalizeRound(g); err != nil {
		return nil, err
	}
	if err := gm.saveGame(g); err != nil {
		return nil, err
	}

	gm.logger.Info("Round advanced",
		zap.String("game_id", gameID),
		zap.Int("round", g.CurrentRound),
		zap.Bool("finished", g.Finished))

	return &types.AdvanceResult{Round: g.CurrentRound, Finished: g.Finished}, nil
}

// finalizeRound settles the market, commits the results, and opens the
// next round (or finishes the game). The settlement is computed fully
// into a local structure before any company state is touched, so a
// failure can't leave the round half-applied. Caller holds the game
// lock.
func (gm *GameManager) finalizeRound(g *types.Game) error {
	record := g.RoundResults[g.CurrentRound]
	if record.Finalized() {
		return ErrRoundFinalized
	}

	settlement := SettleMarket(g.Market, g.Teams)

	snapshots := make(map[string]*types.Company, len(g.Teams))
	for _, teamID := range sortedTeamIDs(g.Teams) {
		company := g.Teams[teamID]
		ApplySettlement(company, settlement[teamID])
		ComputeScore(company)
		snapshots[teamID] = company.Clone()
	}
	record.Settlement = settlement
	record.CompanyStates = snapshots

	g.CurrentRound++
	if g.CurrentRound > g.NumRounds {
		g.Finished = true
		return nil
	}
	g.RoundResults[g.CurrentRound] = &types.RoundRecord{}

	events := GenerateEvents(g.CurrentRound, gm.roller)
	for _, event := range events {
		gm.logger.Info("Applying event",
			zap.String("game_id", g.ID),
			zap.String("event_id", event.ID),
			zap.String("title", event.Title),
			zap.Int("round", event.Round))
		ApplyEvent(event, g)
	}
	g.Events = append(g.Events, events...)

	AdvanceMarket(g.Market, g.CurrentRound, gm.roller)
	return nil
}

// TeamView builds the partial-information projection for one team.
func (gm *GameManager) TeamView(gameID, teamID, teamCode string) (*types.TeamView, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	company, ok := g.Teams[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}
	if !gm.storage.VerifyTeam(gameID, teamID, teamCode) {
		return nil, ErrUnauthorized
	}

	var currentEvents []*types.Event
	for _, event := range g.Events {
		if event.Round == g.CurrentRound {
			currentEvents = append(currentEvents, event)
		}
	}

	// Rivals expose only public facts.
	competitors := make(map[string]*types.CompetitorInfo, len(g.Teams)-1)
	for rivalID, rival := range g.Teams {
		if rivalID == teamID {
			continue
		}
		competitors[rivalID] = &types.CompetitorInfo{
			Name:          rival.Name,
			MarketShare:   rival.MarketShare,
			BrandStrength: rival.BrandStrength,
		}
	}

	var previous *types.PreviousRoundResults
	if g.CurrentRound > 1 {
		if prev := g.RoundResults[g.CurrentRound-1]; prev.Finalized() {
			previous = &types.PreviousRoundResults{
				CompanyState: prev.CompanyStates[teamID].Clone(),
				Settlement:   prev.Settlement[teamID].Clone(),
			}
		}
	}

	return &types.TeamView{
		Round:           g.CurrentRound,
		TotalRounds:     g.NumRounds,
		Company:         company.Clone(),
		Market:          GenerateMarketReport(g.Market, g.CurrentRound),
		Events:          currentEvents,
		Competitors:     competitors,
		PreviousResults: previous,
	}, nil
}

// AdminView builds the full game state for the facilitator.
func (gm *GameManager) AdminView(gameID, adminCode string) (*types.AdminView, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !gm.storage.VerifyAdmin(gameID, adminCode) {
		return nil, ErrUnauthorized
	}

	teams := make(map[string]*types.Company, len(g.Teams))
	for teamID, company := range g.Teams {
		teams[teamID] = company.Clone()
	}
	// The view escapes the game lock, so it must not alias live records.
	records := make(map[int]*types.RoundRecord, len(g.RoundResults))
	for round, record := range g.RoundResults {
		records[round] = record.Clone()
	}

	return &types.AdminView{
		GameID:       g.ID,
		Round:        g.CurrentRound,
		TotalRounds:  g.NumRounds,
		Started:      g.Started,
		Finished:     g.Finished,
		Teams:        teams,
		Market:       GenerateMarketReport(g.Market, g.CurrentRound),
		Events:       append([]*types.Event{}, g.Events...),
		RoundResults: records,
	}, nil
}

// Rankings returns the leaderboard, stable-sorted descending by
// composite score so tied teams keep their roster order.
func (gm *GameManager) Rankings(gameID, adminCode string) ([]types.TeamRanking, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !gm.storage.VerifyAdmin(gameID, adminCode) {
		return nil, ErrUnauthorized
	}

	rankings := make([]types.TeamRanking, 0, len(g.Teams))
	for _, teamID := range sortedTeamIDs(g.Teams) {
		company := g.Teams[teamID]
		rankings = append(rankings, types.TeamRanking{
			TeamID:              teamID,
			Name:                company.Name,
			Score:               company.Score,
			FinancialScore:      company.FinancialScore,
			MarketScore:         company.MarketScore,
			InnovationScore:     company.InnovationScore,
			SustainabilityScore: company.SustainabilityScore,
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings, nil
}

// ResolveTeamCode finds which team a bare access code belongs to, for
// join-by-code flows.
func (gm *GameManager) ResolveTeamCode(gameID, code string) (string, error) {
	g, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return "", err
	}
	defer unlock()

	for _, teamID := range sortedTeamIDs(g.Teams) {
		if g.TeamCodes[teamID] == code {
			return teamID, nil
		}
	}
	return "", ErrUnauthorized
}

// DeleteGame removes a game from memory and storage.
func (gm *GameManager) DeleteGame(gameID, adminCode string) error {
	_, unlock, err := gm.lockGame(gameID)
	if err != nil {
		return err
	}
	defer unlock()

	if !gm.storage.VerifyAdmin(gameID, adminCode) {
		return ErrUnauthorized
	}
	if err := gm.storage.Delete(gameID); err != nil {
		return err
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	delete(gm.locks, gameID)
	gm.mu.Unlock()

	gm.logger.Info("Deleted game", zap.String("game_id", gameID))
	return nil
}

// ListGames returns the ids of every stored game.
func (gm *GameManager) ListGames() ([]string, error) {
	return gm.storage.ListIDs()
}

package interfaces

import "github.com/user/strategy-masters/internal/types"

// GameManager defines the operations the HTTP layer depends on. Keeping
// the surface here lets handlers be exercised against a fake manager.
type GameManager interface {
	CreateGame(numTeams, numRounds int) (*types.GameCredentials, error)
	SubmitDecisions(gameID, teamID, teamCode string, decisions *types.Decisions) (*types.SubmitResult, error)
	AdvanceRound(gameID, adminCode string, force bool) (*types.AdvanceResult, error)
	TeamView(gameID, teamID, teamCode string) (*types.TeamView, error)
	AdminView(gameID, adminCode string) (*types.AdminView, error)
	Rankings(gameID, adminCode string) ([]types.TeamRanking, error)
	ResolveTeamCode(gameID, code string) (string, error)
	DeleteGame(gameID, adminCode string) error
	ListGames() ([]string, error)
}

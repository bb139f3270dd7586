package game

import "errors"

// Error taxonomy for the simulation engine. Callers match with
// errors.Is; the HTTP layer maps these onto status codes.
var (
	// Not found
	ErrGameNotFound = errors.New("game not found")
	ErrTeamNotFound = errors.New("team not found")

	// Unauthorized
	ErrUnauthorized = errors.New("invalid access code")

	// Invalid state
	ErrGameFinished     = errors.New("game already finished")
	ErrAlreadySubmitted = errors.New("team already submitted decisions for this round")
	ErrRoundFinalized   = errors.New("round already finalized")
	ErrRoundIncomplete  = errors.New("not all teams have submitted decisions")

	// Validation
	ErrInvalidGameSetup = errors.New("team and round counts must be positive")

	// Internal
	ErrInternal = errors.New("internal simulation error")
)

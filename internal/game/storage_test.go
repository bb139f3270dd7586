package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/strategy-masters/config"
	"github.com/user/strategy-masters/internal/types"
)

// buildStoredGame plays a round so the snapshot carries submissions,
// settlement data and events, not just initial state.
func buildStoredGame(t *testing.T, storage Storage) (*types.GameCredentials, *types.Game) {
	t.Helper()
	gm := NewGameManager(config.DefaultConfig(), storage)
	gm.SetRoller(NewSeededRoller(42))

	creds, err := gm.CreateGame(2, 3)
	require.NoError(t, err)
	_, err = gm.SubmitDecisions(creds.GameID, "team_1", creds.TeamCodes["team_1"], &types.Decisions{
		RD: &types.RDDecision{Budget: 50_000_000},
	})
	require.NoError(t, err)
	_, err = gm.SubmitDecisions(creds.GameID, "team_2", creds.TeamCodes["team_2"], &types.Decisions{})
	require.NoError(t, err)

	g, err := storage.Load(creds.GameID)
	require.NoError(t, err)
	return creds, g
}

func assertRoundTrip(t *testing.T, storage Storage) {
	t.Helper()
	creds, g := buildStoredGame(t, storage)

	loaded, err := storage.Load(creds.GameID)
	require.NoError(t, err)

	assert.Equal(t, g.ID, loaded.ID)
	assert.Equal(t, 2, loaded.CurrentRound)
	assert.Equal(t, g.TeamCodes, loaded.TeamCodes)
	assert.Equal(t, g.AdminCode, loaded.AdminCode)
	require.Len(t, loaded.Teams, 2)
	assert.InDelta(t, g.Teams["team_1"].Capital, loaded.Teams["team_1"].Capital, 1e-6)
	assert.InDelta(t, 55.0, loaded.Teams["team_1"].RDCapability, 1e-9)

	record := loaded.RoundResults[1]
	require.NotNil(t, record)
	assert.True(t, record.Finalized())
	assert.ElementsMatch(t, []string{"team_1", "team_2"}, record.Submissions)
	require.NotNil(t, record.CompanyStates["team_2"])
	require.NotNil(t, loaded.Market)
	assert.InDelta(t, g.Market.TotalMarketSize, loaded.Market.TotalMarketSize, 1e-6)
	assert.Equal(t, len(g.Events), len(loaded.Events))
	require.NotNil(t, loaded.Teams["team_1"].DecisionsHistory[1])
	assert.InDelta(t, 50_000_000, loaded.Teams["team_1"].DecisionsHistory[1].RD.Budget, 1e-6)
}

// assertLifecycleRoundTrip checks the snapshot at both ends of a game's
// life: freshly created (round 1, nothing submitted) and finished.
func assertLifecycleRoundTrip(t *testing.T, storage Storage) {
	t.Helper()
	gm := NewGameManager(config.DefaultConfig(), storage)
	gm.SetRoller(NewSeededRoller(42))

	creds, err := gm.CreateGame(2, 1)
	require.NoError(t, err)

	fresh, err := storage.Load(creds.GameID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.CurrentRound)
	assert.False(t, fresh.Finished)
	require.NotNil(t, fresh.RoundResults[1])
	assert.Empty(t, fresh.RoundResults[1].Submissions)
	assert.False(t, fresh.RoundResults[1].Finalized())

	_, err = gm.SubmitDecisions(creds.GameID, "team_1", creds.TeamCodes["team_1"], &types.Decisions{})
	require.NoError(t, err)
	res, err := gm.SubmitDecisions(creds.GameID, "team_2", creds.TeamCodes["team_2"], &types.Decisions{})
	require.NoError(t, err)
	require.True(t, res.AllSubmitted)

	finished, err := storage.Load(creds.GameID)
	require.NoError(t, err)
	assert.True(t, finished.Finished)
	assert.Equal(t, 2, finished.CurrentRound)
	record := finished.RoundResults[1]
	require.NotNil(t, record)
	assert.True(t, record.Finalized())
	require.NotNil(t, record.CompanyStates["team_1"])
	assert.NotZero(t, record.CompanyStates["team_1"].Score)
}

// A round can finalize with an empty settlement when nobody offers
// anything; the empty map must survive the round-trip so the round still
// reads as finalized after a reload.
func assertEmptySettlementRoundTrip(t *testing.T, storage Storage) {
	t.Helper()
	gm := NewGameManager(config.DefaultConfig(), storage)
	gm.SetRoller(NewSeededRoller(42))

	creds, err := gm.CreateGame(1, 2)
	require.NoError(t, err)

	_, err = gm.SubmitDecisions(creds.GameID, "team_1", creds.TeamCodes["team_1"], &types.Decisions{
		Products: map[string]*types.ProductDecision{
			types.SegmentMidRange: {Active: bptr(false)},
		},
	})
	require.NoError(t, err)

	loaded, err := storage.Load(creds.GameID)
	require.NoError(t, err)
	record := loaded.RoundResults[1]
	require.NotNil(t, record)
	assert.True(t, record.Finalized())
	assert.Empty(t, record.Settlement)
	assert.False(t, loaded.RoundResults[2].Finalized())
}

func assertVerification(t *testing.T, storage Storage) {
	t.Helper()
	creds, _ := buildStoredGame(t, storage)

	assert.True(t, storage.VerifyAdmin(creds.GameID, creds.AdminCode))
	assert.False(t, storage.VerifyAdmin(creds.GameID, "wrongcode"))
	assert.False(t, storage.VerifyAdmin(creds.GameID, ""))
	assert.False(t, storage.VerifyAdmin("game_missing", creds.AdminCode))

	assert.True(t, storage.VerifyTeam(creds.GameID, "team_1", creds.TeamCodes["team_1"]))
	assert.False(t, storage.VerifyTeam(creds.GameID, "team_1", creds.TeamCodes["team_2"]))
	assert.False(t, storage.VerifyTeam(creds.GameID, "team_9", creds.TeamCodes["team_1"]))
	assert.False(t, storage.VerifyTeam(creds.GameID, "team_1", ""))
}

func assertDeleteAndList(t *testing.T, storage Storage) {
	t.Helper()
	creds, _ := buildStoredGame(t, storage)

	ids, err := storage.ListIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, creds.GameID)

	require.NoError(t, storage.Delete(creds.GameID))
	_, err = storage.Load(creds.GameID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.ErrorIs(t, storage.Delete(creds.GameID), ErrGameNotFound)

	ids, err = storage.ListIDs()
	require.NoError(t, err)
	assert.NotContains(t, ids, creds.GameID)
}

func TestMemoryStorage(t *testing.T) {
	assertRoundTrip(t, NewMemoryStorage())
	assertLifecycleRoundTrip(t, NewMemoryStorage())
	assertEmptySettlementRoundTrip(t, NewMemoryStorage())
	assertVerification(t, NewMemoryStorage())
	assertDeleteAndList(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	newStore := func() *FileStorage {
		fs, err := NewFileStorage(t.TempDir())
		require.NoError(t, err)
		return fs
	}
	assertRoundTrip(t, newStore())
	assertLifecycleRoundTrip(t, newStore())
	assertEmptySettlementRoundTrip(t, newStore())
	assertVerification(t, newStore())
	assertDeleteAndList(t, newStore())
}

func TestFileStorageWritesOneFilePerGame(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	creds, _ := buildStoredGame(t, fs)

	_, err = os.Stat(filepath.Join(dir, creds.GameID+".json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "code_index.json"))
	assert.NoError(t, err)
}

func TestFileStorageSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)
	creds, _ := buildStoredGame(t, fs)

	// A fresh storage over the same directory reloads games and codes.
	reopened, err := NewFileStorage(dir)
	require.NoError(t, err)

	loaded, err := reopened.Load(creds.GameID)
	require.NoError(t, err)
	assert.Equal(t, creds.GameID, loaded.ID)
	assert.True(t, reopened.VerifyAdmin(creds.GameID, creds.AdminCode))
	assert.True(t, reopened.VerifyTeam(creds.GameID, "team_1", creds.TeamCodes["team_1"]))
}

func TestSQLiteStorage(t *testing.T) {
	newStore := func() *SQLiteStorage {
		ss, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "games.db"))
		require.NoError(t, err)
		t.Cleanup(func() { ss.Close() })
		return ss
	}
	assertRoundTrip(t, newStore())
	assertLifecycleRoundTrip(t, newStore())
	assertEmptySettlementRoundTrip(t, newStore())
	assertVerification(t, newStore())
	assertDeleteAndList(t, newStore())
}

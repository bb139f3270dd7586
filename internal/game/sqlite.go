package game

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/user/strategy-masters/internal/types"
)

// SQLiteStorage persists snapshots in a SQLite database: one row per
// game plus a code table for verification queries.
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	admin_code TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS team_codes (
	game_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	code    TEXT NOT NULL,
	PRIMARY KEY (game_id, team_id)
);
`

// NewSQLiteStorage opens (or creates) the database at the given DSN.
func NewSQLiteStorage(dsn string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Close releases the underlying database handle.
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

func (ss *SQLiteStorage) Save(g *types.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO games (id, state, admin_code) VALUES (?, ?, ?)`,
		g.ID, string(data), g.AdminCode,
	); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM team_codes WHERE game_id = ?`, g.ID); err != nil {
		return fmt.Errorf("failed to clear team codes: %w", err)
	}
	for teamID, code := range g.TeamCodes {
		if _, err := tx.Exec(
			`INSERT INTO team_codes (game_id, team_id, code) VALUES (?, ?, ?)`,
			g.ID, teamID, code,
		); err != nil {
			return fmt.Errorf("failed to write team code: %w", err)
		}
	}
	return tx.Commit()
}

func (ss *SQLiteStorage) Load(gameID string) (*types.Game, error) {
	var data string
	err := ss.db.QueryRow(`SELECT state FROM games WHERE id = ?`, gameID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}

	var g types.Game
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	return &g, nil
}

func (ss *SQLiteStorage) Delete(gameID string) error {
	result, err := ss.db.Exec(`DELETE FROM games WHERE id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if _, err := ss.db.Exec(`DELETE FROM team_codes WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("failed to delete team codes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (ss *SQLiteStorage) ListIDs() ([]string, error) {
	rows, err := ss.db.Query(`SELECT id FROM games ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (ss *SQLiteStorage) VerifyAdmin(gameID, code string) bool {
	if code == "" {
		return false
	}
	var stored string
	err := ss.db.QueryRow(`SELECT admin_code FROM games WHERE id = ?`, gameID).Scan(&stored)
	return err == nil && stored == code
}

func (ss *SQLiteStorage) VerifyTeam(gameID, teamID, code string) bool {
	if code == "" {
		return false
	}
	var stored string
	err := ss.db.QueryRow(
		`SELECT code FROM team_codes WHERE game_id = ? AND team_id = ?`,
		gameID, teamID,
	).Scan(&stored)
	return err == nil && stored == code
}

package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/user/strategy-masters/internal/types"
)

// Storage persists serialized game snapshots between requests and
// answers access-code checks without exposing the codes. Load returns
// ErrGameNotFound for unknown ids.
type Storage interface {
	Save(g *types.Game) error
	Load(gameID string) (*types.Game, error)
	Delete(gameID string) error
	ListIDs() ([]string, error)
	VerifyAdmin(gameID, code string) bool
	VerifyTeam(gameID, teamID, code string) bool
}

// codeIndex mirrors each game's access codes so verification doesn't
// need a full snapshot load.
type codeIndex struct {
	AdminCodes map[string]string            `json:"admin_codes"`
	TeamCodes  map[string]map[string]string `json:"team_codes"`
}

func newCodeIndex() *codeIndex {
	return &codeIndex{
		AdminCodes: make(map[string]string),
		TeamCodes:  make(map[string]map[string]string),
	}
}

// FileStorage keeps one JSON file per game plus a code index file.
type FileStorage struct {
	dir   string
	mu    sync.RWMutex
	index *codeIndex
}

// NewFileStorage creates a file-backed storage rooted at dir, loading
// the existing code index when present.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fs := &FileStorage{dir: dir, index: newCodeIndex()}

	data, err := os.ReadFile(fs.indexPath())
	if err == nil {
		if err := json.Unmarshal(data, fs.index); err != nil {
			return nil, fmt.Errorf("failed to parse code index: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read code index: %w", err)
	}
	if fs.index.AdminCodes == nil {
		fs.index.AdminCodes = make(map[string]string)
	}
	if fs.index.TeamCodes == nil {
		fs.index.TeamCodes = make(map[string]map[string]string)
	}

	return fs, nil
}

func (fs *FileStorage) gamePath(gameID string) string {
	return filepath.Join(fs.dir, gameID+".json")
}

func (fs *FileStorage) indexPath() string {
	return filepath.Join(fs.dir, "code_index.json")
}

func (fs *FileStorage) saveIndex() error {
	data, err := json.Marshal(fs.index)
	if err != nil {
		return fmt.Errorf("failed to marshal code index: %w", err)
	}
	if err := os.WriteFile(fs.indexPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write code index: %w", err)
	}
	return nil
}

// Save writes the snapshot and refreshes the code index.
func (fs *FileStorage) Save(g *types.Game) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}
	if err := os.WriteFile(fs.gamePath(g.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}

	fs.index.AdminCodes[g.ID] = g.AdminCode
	teamCodes := make(map[string]string, len(g.TeamCodes))
	for teamID, code := range g.TeamCodes {
		teamCodes[teamID] = code
	}
	fs.index.TeamCodes[g.ID] = teamCodes
	return fs.saveIndex()
}

// Load reads a snapshot back, or ErrGameNotFound.
func (fs *FileStorage) Load(gameID string) (*types.Game, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.gamePath(gameID))
	if os.IsNotExist(err) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}

	var g types.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	return &g, nil
}

// Delete removes the snapshot and its index entries.
func (fs *FileStorage) Delete(gameID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.index.AdminCodes, gameID)
	delete(fs.index.TeamCodes, gameID)
	if err := fs.saveIndex(); err != nil {
		return err
	}

	err := os.Remove(fs.gamePath(gameID))
	if os.IsNotExist(err) {
		return ErrGameNotFound
	}
	return err
}

// ListIDs returns every stored game id.
func (fs *FileStorage) ListIDs() ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || name == "code_index.json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// VerifyAdmin checks an admin access code against the index.
func (fs *FileStorage) VerifyAdmin(gameID, code string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	stored, ok := fs.index.AdminCodes[gameID]
	return ok && code != "" && stored == code
}

// VerifyTeam checks a team access code against the index.
func (fs *FileStorage) VerifyTeam(gameID, teamID, code string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	stored, ok := fs.index.TeamCodes[gameID][teamID]
	return ok && code != "" && stored == code
}

// MemoryStorage keeps serialized snapshots in memory. Snapshots are
// stored as JSON bytes so Load always round-trips through the wire
// format, exactly like the durable backends.
type MemoryStorage struct {
	mu    sync.RWMutex
	games map[string][]byte
	index *codeIndex
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		games: make(map[string][]byte),
		index: newCodeIndex(),
	}
}

func (ms *MemoryStorage) Save(g *types.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.games[g.ID] = data
	ms.index.AdminCodes[g.ID] = g.AdminCode
	teamCodes := make(map[string]string, len(g.TeamCodes))
	for teamID, code := range g.TeamCodes {
		teamCodes[teamID] = code
	}
	ms.index.TeamCodes[g.ID] = teamCodes
	return nil
}

func (ms *MemoryStorage) Load(gameID string) (*types.Game, error) {
	ms.mu.RLock()
	data, ok := ms.games[gameID]
	ms.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}

	var g types.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}
	return &g, nil
}

func (ms *MemoryStorage) Delete(gameID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.games[gameID]; !ok {
		return ErrGameNotFound
	}
	delete(ms.games, gameID)
	delete(ms.index.AdminCodes, gameID)
	delete(ms.index.TeamCodes, gameID)
	return nil
}

func (ms *MemoryStorage) ListIDs() ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	ids := make([]string, 0, len(ms.games))
	for id := range ms.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (ms *MemoryStorage) VerifyAdmin(gameID, code string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	stored, ok := ms.index.AdminCodes[gameID]
	return ok && code != "" && stored == code
}

func (ms *MemoryStorage) VerifyTeam(gameID, teamID, code string) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	stored, ok := ms.index.TeamCodes[gameID][teamID]
	return ok && code != "" && stored == code
}

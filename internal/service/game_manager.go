// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benbeisheim/duelchess/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// RecordStore persists the record of a finished game. *store.FileStore
// satisfies it.
type RecordStore interface {
	Save(name, record string) (string, error)
}

type ManagerConfig struct {
	ClockBudget time.Duration
	// Store may be nil, in which case records are not saved.
	Store  RecordStore
	Logger *zap.Logger
	// SweepInterval is how often clocks are checked. Zero means one second.
	SweepInterval time.Duration
	// Retention is how long a finished game stays reachable once its record
	// is saved. Zero means five minutes.
	Retention time.Duration
}

const defaultRetention = 5 * time.Minute

// GameManager owns every live game and a background loop that ends games
// whose side to move ran out of time and saves finished records.
type GameManager struct {
	games map[string]*model.Game
	saved map[string]string
	// saving holds games whose record is being written.
	saving    map[string]struct{}
	finished  map[string]time.Time
	retention time.Duration
	now       func() time.Time
	mu        sync.RWMutex
	opts      model.Options
	store     RecordStore
	logger    *zap.Logger
	done      chan struct{}
	once      sync.Once
}

func NewGameManager(cfg ManagerConfig) *GameManager {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = time.Second
	}
	retention := cfg.Retention
	if retention <= 0 {
		retention = defaultRetention
	}
	gm := &GameManager{
		games:     make(map[string]*model.Game),
		saved:     make(map[string]string),
		saving:    make(map[string]struct{}),
		finished:  make(map[string]time.Time),
		retention: retention,
		now:       time.Now,
		opts:      model.Options{ClockBudget: cfg.ClockBudget, Logger: logger},
		store:     cfg.Store,
		logger:    logger,
		done:      make(chan struct{}),
	}

	go gm.processSessions(interval)

	return gm
}

// Close stops the background loop.
func (gm *GameManager) Close() {
	gm.once.Do(func() { close(gm.done) })
}

func (gm *GameManager) processSessions(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.Sweep()
		}
	}
}

// Sweep runs one pass of the background loop. Finished games are evicted
// once their record is saved and the retention period has passed.
func (gm *GameManager) Sweep() {
	gm.mu.RLock()
	games := make([]*model.Game, 0, len(gm.games))
	for _, g := range gm.games {
		games = append(games, g)
	}
	gm.mu.RUnlock()

	for _, g := range games {
		g.CheckClock()
		gm.SaveIfFinished(g)
		if gm.expired(g) {
			gm.RemoveGame(g.ID)
		}
	}
}

// expired reports whether a finished game has outlived the retention period.
// An unsaved record keeps the game alive so the next sweep can retry.
func (gm *GameManager) expired(g *model.Game) bool {
	if !g.Finished() {
		return false
	}
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, ok := gm.saved[g.ID]; gm.store != nil && !ok {
		return false
	}
	since, ok := gm.finished[g.ID]
	if !ok {
		gm.finished[g.ID] = gm.now()
		return false
	}
	return gm.now().Sub(since) >= gm.retention
}

// SaveIfFinished stores the record of a finished game once. The store is
// called outside the manager lock.
func (gm *GameManager) SaveIfFinished(g *model.Game) {
	if gm.store == nil || !g.Finished() {
		return
	}
	if !gm.claimSave(g.ID) {
		return
	}
	path, err := gm.store.Save(g.ID, g.Record())

	gm.mu.Lock()
	delete(gm.saving, g.ID)
	if err == nil {
		gm.saved[g.ID] = path
	}
	gm.mu.Unlock()

	if err != nil {
		gm.logger.Error("save record", zap.String("game_id", g.ID), zap.Error(err))
		return
	}
	gm.logger.Info("record saved", zap.String("game_id", g.ID), zap.String("path", path))
}

func (gm *GameManager) claimSave(gameID string) bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, done := gm.saved[gameID]; done {
		return false
	}
	if _, busy := gm.saving[gameID]; busy {
		return false
	}
	gm.saving[gameID] = struct{}{}
	return true
}

// SavedPath returns where a finished game's record was written.
func (gm *GameManager) SavedPath(gameID string) (string, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	path, ok := gm.saved[gameID]
	return path, ok
}

func (gm *GameManager) CreateGame() (*model.Game, error) {
	g := model.NewGame(uuid.New().String(), gm.opts)
	if err := gm.addGame(g); err != nil {
		return nil, err
	}
	return g, nil
}

// ContinueGame starts a new game from snapshot step of a stored record.
func (gm *GameManager) ContinueGame(record string, step int) (*model.Game, error) {
	g, err := model.NewGameFromRecord(uuid.New().String(), record, step, gm.opts)
	if err != nil {
		return nil, err
	}
	if err := gm.addGame(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (gm *GameManager) addGame(g *model.Game) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[g.ID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, g.ID)
	}
	gm.games[g.ID] = g
	gm.logger.Info("game created", zap.String("game_id", g.ID))
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// RemoveGame drops a game and closes its connections.
func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	g, exists := gm.games[gameID]
	delete(gm.games, gameID)
	delete(gm.saved, gameID)
	delete(gm.finished, gameID)
	gm.mu.Unlock()

	if exists {
		g.CloseConnections()
		gm.logger.Info("game removed", zap.String("game_id", gameID))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/navigation"
)

var (
	// ErrWrongMode is returned for manual commands on an exploration run and
	// for exploration steps on a manual run
	ErrWrongMode        = errors.New("operation not allowed in this navigation mode")
	ErrInvalidDirection = errors.New("invalid direction")

	// Storage sentinels shared with the session and config managers
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// CleanerService defines all simulation operations
type CleanerService interface {
	// Session Management
	CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robot Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResponse, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResponse, error)
	Step(ctx context.Context, sessionID string, steps int) (*StepResponse, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// World State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetPath(ctx context.Context, sessionID string, opts HistoryOptions) (*PathResponse, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*engine.WorldConfig, error)
	SavePreset(ctx context.Context, name string, config *engine.WorldConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, preset string, config *engine.WorldConfig, seed int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles world preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.WorldConfig, error)
	ListConfigs() ([]*PresetInfo, error)
	GetDefault() *engine.WorldConfig
	DefaultName() string
	SaveConfig(name string, config *engine.WorldConfig) error
}

// Session is one simulation run: a world and the strategy that drives it
type Session struct {
	ID             string
	Preset         string
	Config         *engine.WorldConfig
	Seed           int64
	World          *engine.World
	Strategy       navigation.Strategy
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// NewSession builds the world for config from seed
func NewSession(id, preset string, config *engine.WorldConfig, seed int64) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:             id,
		Preset:         preset,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if err := sess.Regenerate(seed); err != nil {
		return nil, err
	}
	return sess, nil
}

// Regenerate replaces the world and strategy with fresh ones built from seed
func (s *Session) Regenerate(seed int64) error {
	world, err := engine.Generate(*s.Config, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("failed to generate world: %w", err)
	}
	strategy, err := navigation.New(world.Mode())
	if err != nil {
		return err
	}

	s.World = world
	s.Strategy = strategy
	s.Seed = seed
	return nil
}

// Snapshot returns the world state with the run status as seen by the strategy
func (s *Session) Snapshot() *engine.Snapshot {
	snap := s.World.Snapshot()
	snap.Status = navigation.Status(s.Strategy, s.World)
	return snap
}

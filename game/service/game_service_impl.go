package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/robot-cleaner/game/engine"
	"github.com/wricardo/robot-cleaner/game/navigation"
)

// cleanerServiceImpl implements the CleanerService interface
type cleanerServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	seeds    func() int64
	mu       sync.RWMutex
}

// NewCleanerService creates a new service instance
func NewCleanerService(sessions SessionManager, configs ConfigManager) CleanerService {
	return &cleanerServiceImpl{
		sessions: sessions,
		configs:  configs,
		seeds:    func() int64 { return time.Now().UnixNano() },
	}
}

// CreateSession builds a new world from a preset and registers it
func (s *cleanerServiceImpl) CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset := opts.Preset
	var cfg *engine.WorldConfig
	if preset != "" {
		loaded, err := s.configs.LoadConfig(preset)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.presetNotFound(preset, err)
			}
			return nil, fmt.Errorf("failed to load preset %s: %w", preset, err)
		}
		cfg = loaded
	} else {
		cfg = s.configs.GetDefault()
		preset = s.configs.DefaultName()
	}

	// Sessions own their config so a mode override never leaks into the cache
	runConfig := *cfg
	if opts.Mode != "" {
		mode, err := engine.ParseMode(string(opts.Mode))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
		}
		runConfig.Mode = mode
	}

	seed := s.seeds()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	sess, err := s.sessions.Create("", preset, &runConfig, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// presetNotFound lists the available presets to make the error actionable
func (s *cleanerServiceImpl) presetNotFound(name string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, p := range available {
			ids = append(ids, p.PresetID)
		}
		return fmt.Errorf("preset '%s': %w. Available presets: %v", name, err, ids)
	}
	return fmt.Errorf("preset '%s': %w. Use /api/presets to list available presets", name, err)
}

// GetSession retrieves session information
func (s *cleanerServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *cleanerServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *cleanerServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// manualSession returns the session and its manual strategy
func (s *cleanerServiceImpl) manualSession(sessionID string) (*Session, *navigation.Manual, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	manual, ok := sess.Strategy.(*navigation.Manual)
	if !ok {
		return nil, nil, fmt.Errorf("%w: session %s is in %s mode, use step instead of move",
			ErrWrongMode, sessionID, sess.Strategy.Mode())
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, manual, nil
}

// Move performs one manual move
func (s *cleanerServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, manual, err := s.manualSession(sessionID)
	if err != nil {
		return nil, err
	}

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDirection, err)
	}

	manual.Input(dir)
	step := manual.Step(sess.World)

	return &MoveResponse{
		Result:   *step.Move,
		Snapshot: sess.Snapshot(),
		Message:  describeMove(*step.Move, sess.World),
	}, nil
}

// BulkMove performs a sequence of manual moves, stopping at the first blocked
// one or once the room is fully cleaned
func (s *cleanerServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, manual, err := s.manualSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResponse{
		RequestedMoves: len(moves),
		Results:        make([]engine.MoveResult, 0, min(len(moves), engine.MaxBulkMoves)),
	}
	if len(moves) > engine.MaxBulkMoves {
		moves = moves[:engine.MaxBulkMoves]
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
	}

	cleanedBefore := sess.World.CleanedCount()
	for i, raw := range moves {
		dir, err := engine.ParseDirection(raw)
		if err != nil {
			result.StoppedReason = "invalid_direction"
			result.StoppedOnMove = i + 1
			break
		}

		manual.Input(dir)
		step := manual.Step(sess.World)
		result.Results = append(result.Results, *step.Move)

		if !step.Moved() {
			result.StoppedReason = "blocked"
			result.StoppedOnMove = i + 1
			break
		}
		result.MovesExecuted++

		if sess.World.IsComplete() {
			if i < len(moves)-1 {
				result.StoppedReason = "complete"
				result.StoppedOnMove = i + 1
			}
			break
		}
	}

	result.NewlyCleaned = sess.World.CleanedCount() - cleanedBefore
	result.Snapshot = sess.Snapshot()
	return result, nil
}

// Step advances an exploration run by up to steps ticks
func (s *cleanerServiceImpl) Step(ctx context.Context, sessionID string, steps int) (*StepResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Strategy.Mode() != engine.ModeExploration {
		return nil, fmt.Errorf("%w: session %s is in %s mode, use move instead of step",
			ErrWrongMode, sessionID, sess.Strategy.Mode())
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if steps <= 0 {
		steps = 1
	}
	if steps > engine.MaxStepsPerCall {
		steps = engine.MaxStepsPerCall
	}

	result := &StepResponse{RequestedSteps: steps}
	for result.StepsExecuted < steps && !sess.Strategy.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step := sess.Strategy.Step(sess.World)
		result.StepsExecuted++
		result.Last = &step

		switch step.Action {
		case navigation.ActionMove:
			result.Probes++
		case navigation.ActionBacktrack:
			result.Backtracks++
		}
		if step.Move != nil {
			if step.Moved() {
				result.Moves++
			} else {
				result.Blocked++
			}
		}
	}

	result.Finished = sess.Strategy.Done()
	result.Status = navigation.Status(sess.Strategy, sess.World)
	if err := sess.Strategy.Err(); err != nil {
		result.Error = err.Error()
	}
	result.Snapshot = sess.Snapshot()
	return result, nil
}

// Reset rebuilds the session's world from the same preset with a fresh seed
func (s *cleanerServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Regenerate(s.seeds()); err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// GetSnapshot returns the current world state
func (s *cleanerServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Snapshot(), nil
}

// GetPath returns the robot's path one page at a time
func (s *cleanerServiceImpl) GetPath(ctx context.Context, sessionID string, opts HistoryOptions) (*PathResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	path := sess.World.Path()
	total := len(path)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	entries := make([]PathEntry, 0, end-start)
	for i := start; i < end; i++ {
		idx := i
		if opts.Order == "desc" {
			idx = total - 1 - i
		}
		p := path[idx]
		entries = append(entries, PathEntry{
			Index: idx + 1,
			Point: p,
			Cell:  engine.CellSpec{X: int(p.X), Y: int(p.Y)},
		})
	}

	return &PathResponse{
		Entries:     entries,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListPresets returns the available presets
func (s *cleanerServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.configs.ListConfigs()
}

// LoadPreset returns a preset by name
func (s *cleanerServiceImpl) LoadPreset(ctx context.Context, name string) (*engine.WorldConfig, error) {
	return s.configs.LoadConfig(strings.TrimSuffix(name, ".json"))
}

// SavePreset validates and stores a preset
func (s *cleanerServiceImpl) SavePreset(ctx context.Context, name string, cfg *engine.WorldConfig) error {
	return s.configs.SaveConfig(name, cfg)
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		Preset:         sess.Preset,
		Mode:           sess.Strategy.Mode(),
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Snapshot:       sess.Snapshot(),
		Config:         sess.Config,
	}
}

func describeMove(result engine.MoveResult, world *engine.World) string {
	switch result.Outcome {
	case engine.Visited:
		x, y := result.Vacated.Cell()
		msg := fmt.Sprintf("Moved %s, cleaned (%d,%d). %d/%d cells cleaned",
			result.Direction, x, y, world.CleanedCount(), world.Todo())
		if world.IsComplete() {
			msg += ". Room complete!"
		}
		return msg
	case engine.NotVisited:
		return fmt.Sprintf("Moved %s over already cleaned ground. %d/%d cells cleaned",
			result.Direction, world.CleanedCount(), world.Todo())
	}
	return fmt.Sprintf("Blocked moving %s", result.Direction)
}

package server

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"yahtzee-server/internal/result"
)

// MemoryStore keeps games in process memory. It is the default store
// and the one tests run against.
type MemoryStore struct {
	games   map[string]StoredGame
	pending map[string]PendingGame
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:   make(map[string]StoredGame),
		pending: make(map[string]PendingGame),
	}
}

func (s *MemoryStore) Games(ctx context.Context) result.Result[[]StoredGame] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]StoredGame, 0, len(s.games))
	for _, game := range s.games {
		games = append(games, game)
	}
	return result.Ok(games)
}

func (s *MemoryStore) Game(ctx context.Context, id string) result.Result[StoredGame] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return result.Err[StoredGame](NotFoundError{Key: id})
	}
	return result.Ok(game)
}

func (s *MemoryStore) AddGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.ID] = game
	return result.Ok(game)
}

func (s *MemoryStore) ReplaceGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[game.ID]; !ok {
		return result.Err[StoredGame](NotFoundError{Key: game.ID})
	}
	s.games[game.ID] = game
	return result.Ok(game)
}

func (s *MemoryStore) PendingGames(ctx context.Context) result.Result[[]PendingGame] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]PendingGame, 0, len(s.pending))
	for _, p := range s.pending {
		pending = append(pending, p)
	}
	return result.Ok(pending)
}

func (s *MemoryStore) PendingGame(ctx context.Context, id string) result.Result[PendingGame] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending, ok := s.pending[id]
	if !ok {
		return result.Err[PendingGame](NotFoundError{Key: id})
	}
	return result.Ok(pending)
}

func (s *MemoryStore) AddPending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending.ID = uuid.New().String()
	s.pending[pending.ID] = pending
	return result.Ok(pending)
}

func (s *MemoryStore) ReplacePending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[pending.ID]; !ok {
		return result.Err[PendingGame](NotFoundError{Key: pending.ID})
	}
	s.pending[pending.ID] = pending
	return result.Ok(pending)
}

func (s *MemoryStore) DeletePending(ctx context.Context, id string) result.Result[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; !ok {
		return result.Err[struct{}](NotFoundError{Key: id})
	}
	delete(s.pending, id)
	return result.Ok(struct{}{})
}

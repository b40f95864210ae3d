package server

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"yahtzee-server/internal/dice"
	"yahtzee-server/internal/result"
	"yahtzee-server/internal/yahtzee"
)

// Coordinator orchestrates the lifecycle of every game: it turns
// pending games into active ones once enough players have joined,
// routes reroll/register requests to the right session after checking
// turn ownership, and persists every mutation through the store
// before notifying the broadcaster.
//
// Every mutating operation is one linear pipeline:
// load -> authorize -> apply pure transition -> persist -> broadcast.
// Nothing is retried; a persistence failure aborts the pipeline and
// the in-memory transition is discarded.
type Coordinator struct {
	store       Store
	broadcaster Broadcaster
	random      dice.Randomizer
	logger      *zap.Logger
	locks       *keyedMutex

	// live holds the running game value per id so the reroll budget
	// carries across requests. A game loaded cold from the store goes
	// through FromMemento, which resets the budget (see memento.go).
	mu   sync.RWMutex
	live map[string]yahtzee.Game
}

func NewCoordinator(store Store, broadcaster Broadcaster, random dice.Randomizer, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:       store,
		broadcaster: broadcaster,
		random:      random,
		logger:      logger,
		locks:       newKeyedMutex(),
		live:        make(map[string]yahtzee.Game),
	}
}

// Create opens a pending game with the creator as its only member. A
// target of one player starts the game immediately.
func (c *Coordinator) Create(ctx context.Context, creator string, numberOfPlayers int) result.Result[Record] {
	if numberOfPlayers < 1 {
		return result.Err[Record](fmt.Errorf("%w: %d", yahtzee.ErrWrongPlayerCount, numberOfPlayers))
	}

	added := c.store.AddPending(ctx, PendingGame{
		Creator:         creator,
		NumberOfPlayers: numberOfPlayers,
		Players:         []string{},
		Pending:         true,
	})
	added.Process(func(pending PendingGame) {
		c.logger.Info("pending game created",
			zap.String("id", pending.ID),
			zap.String("creator", creator),
			zap.Int("number_of_players", numberOfPlayers))
	})

	return result.FlatMap(added, func(pending PendingGame) result.Result[Record] {
		return c.Join(ctx, pending.ID, creator)
	})
}

// Join appends a player to a pending game. When the target count is
// reached the pending record is replaced by a freshly started active
// session; the two records never coexist.
func (c *Coordinator) Join(ctx context.Context, id string, player string) result.Result[Record] {
	unlock := c.locks.lock(id)
	defer unlock()

	pending := c.store.PendingGame(ctx, id)
	joined := result.Map(pending, func(p PendingGame) PendingGame {
		p.Players = append(append([]string{}, p.Players...), player)
		return p
	})

	record := result.FlatMap(joined, func(p PendingGame) result.Result[Record] {
		return c.startIfReady(ctx, p)
	})
	record.Process(func(r Record) {
		c.broadcaster.Send(ctx, r)
	})
	return record
}

func (c *Coordinator) startIfReady(ctx context.Context, pending PendingGame) result.Result[Record] {
	if len(pending.Players) < pending.NumberOfPlayers {
		return result.Map(c.store.ReplacePending(ctx, pending), PendingRecord)
	}

	game, err := yahtzee.New(yahtzee.Options{
		Players:         pending.Players,
		NumberOfPlayers: pending.NumberOfPlayers,
		Randomizer:      c.random,
	})
	if err != nil {
		return result.Err[Record](err)
	}

	// The pending record goes first so the same logical game is never
	// both pending and active.
	deleted := c.store.DeletePending(ctx, pending.ID)
	added := result.FlatMap(deleted, func(struct{}) result.Result[StoredGame] {
		return c.store.AddGame(ctx, StoredGame{ID: pending.ID, Memento: game.Memento()})
	})
	added.Process(func(stored StoredGame) {
		c.cache(stored.ID, game)
		c.logger.Info("game started",
			zap.String("id", stored.ID),
			zap.Strings("players", game.Players()))
	})
	return result.Map(added, GameRecord)
}

// Reroll replaces the non-held dice for the player in turn.
func (c *Coordinator) Reroll(ctx context.Context, id string, held []int, player string) result.Result[Record] {
	return c.update(ctx, id, player, func(game yahtzee.Game) (yahtzee.Game, error) {
		return game.Reroll(held)
	})
}

// Register scores the current roll into a category for the player in
// turn and advances the game to the next player.
func (c *Coordinator) Register(ctx context.Context, id string, category yahtzee.Category, player string) result.Result[Record] {
	return c.update(ctx, id, player, func(game yahtzee.Game) (yahtzee.Game, error) {
		return game.Register(category)
	})
}

// Games lists all active games. Read-only passthrough to the store.
func (c *Coordinator) Games(ctx context.Context) result.Result[[]StoredGame] {
	return c.store.Games(ctx)
}

// Game fetches one active game by id.
func (c *Coordinator) Game(ctx context.Context, id string) result.Result[StoredGame] {
	return c.store.Game(ctx, id)
}

// PendingGames lists all games still recruiting players.
func (c *Coordinator) PendingGames(ctx context.Context) result.Result[[]PendingGame] {
	return c.store.PendingGames(ctx)
}

// PendingGame fetches one pending game by id.
func (c *Coordinator) PendingGame(ctx context.Context, id string) result.Result[PendingGame] {
	return c.store.PendingGame(ctx, id)
}

func (c *Coordinator) update(ctx context.Context, id, player string, apply func(yahtzee.Game) (yahtzee.Game, error)) result.Result[Record] {
	unlock := c.locks.lock(id)
	defer unlock()

	loaded := c.load(ctx, id)
	authorized := loaded.Filter(
		func(game yahtzee.Game) bool { return game.PlayerInTurn() == player },
		func(yahtzee.Game) error { return ErrForbidden },
	)
	applied := result.FlatMap(authorized, func(game yahtzee.Game) result.Result[yahtzee.Game] {
		next, err := apply(game)
		if err != nil {
			return result.Err[yahtzee.Game](err)
		}
		return result.Ok(next)
	})
	persisted := result.FlatMap(applied, func(game yahtzee.Game) result.Result[Record] {
		stored := c.store.ReplaceGame(ctx, StoredGame{ID: id, Memento: game.Memento()})

		// The transition is committed only once the store accepts it.
		stored.Process(func(StoredGame) {
			c.cache(id, game)
			if game.Finished() {
				c.logger.Info("game finished",
					zap.String("id", id),
					zap.Ints("totals", game.Totals()))
			}
		})
		return result.Map(stored, GameRecord)
	})

	persisted.Process(func(r Record) {
		c.broadcaster.Send(ctx, r)
	})
	persisted.ProcessErr(func(err error) {
		c.logger.Debug("mutation rejected",
			zap.String("id", id),
			zap.String("player", player),
			zap.Error(err))
	})
	return persisted
}

// load prefers the live game value and falls back to restoring from
// the store.
func (c *Coordinator) load(ctx context.Context, id string) result.Result[yahtzee.Game] {
	c.mu.RLock()
	game, ok := c.live[id]
	c.mu.RUnlock()
	if ok {
		return result.Ok(game)
	}

	return result.Map(c.store.Game(ctx, id), func(stored StoredGame) yahtzee.Game {
		return yahtzee.FromMemento(stored.Memento, c.random)
	})
}

func (c *Coordinator) cache(id string, game yahtzee.Game) {
	c.mu.Lock()
	c.live[id] = game
	c.mu.Unlock()
}

package server

import (
	"context"
	"encoding/json"

	"yahtzee-server/internal/result"
	"yahtzee-server/internal/yahtzee"
)

// StoredGame is an active session as the store keeps it: an opaque id
// plus the full game snapshot. Pending is always false on the wire so
// clients can tell the two record kinds apart.
type StoredGame struct {
	ID      string `json:"id"`
	Pending bool   `json:"pending"`
	yahtzee.Memento
}

// PendingGame is a not-yet-started game still recruiting players. It
// has no roll, no scores and no turn order.
type PendingGame struct {
	ID              string   `json:"id"`
	Creator         string   `json:"creator"`
	NumberOfPlayers int      `json:"number_of_players"`
	Players         []string `json:"players"`
	Pending         bool     `json:"pending"`
}

// Record is the tagged union of the two lifecycle states. Exactly one
// side is set.
type Record struct {
	game    *StoredGame
	pending *PendingGame
}

func GameRecord(game StoredGame) Record {
	return Record{game: &game}
}

func PendingRecord(pending PendingGame) Record {
	return Record{pending: &pending}
}

// Game returns the active side of the record, if that is what it
// holds.
func (r Record) Game() (StoredGame, bool) {
	if r.game == nil {
		return StoredGame{}, false
	}
	return *r.game, true
}

// PendingGame returns the pending side of the record, if that is what
// it holds.
func (r Record) PendingGame() (PendingGame, bool) {
	if r.pending == nil {
		return PendingGame{}, false
	}
	return *r.pending, true
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.game != nil {
		return json.Marshal(r.game)
	}
	return json.Marshal(r.pending)
}

// Store is the durable repository of pending and active games, keyed
// by opaque id. The store owns persisted bytes and nothing else; game
// rules never reach it. Failures are carried as NotFoundError or
// StoreError inside the result.
type Store interface {
	Games(ctx context.Context) result.Result[[]StoredGame]
	Game(ctx context.Context, id string) result.Result[StoredGame]
	AddGame(ctx context.Context, game StoredGame) result.Result[StoredGame]
	ReplaceGame(ctx context.Context, game StoredGame) result.Result[StoredGame]

	PendingGames(ctx context.Context) result.Result[[]PendingGame]
	PendingGame(ctx context.Context, id string) result.Result[PendingGame]
	AddPending(ctx context.Context, pending PendingGame) result.Result[PendingGame]
	ReplacePending(ctx context.Context, pending PendingGame) result.Result[PendingGame]
	DeletePending(ctx context.Context, id string) result.Result[struct{}]
}

// Broadcaster receives every post-mutation record for fan-out to
// subscribers. Sends are fire-and-forget; the coordinator never acts
// on their outcome.
type Broadcaster interface {
	Send(ctx context.Context, record Record)
}

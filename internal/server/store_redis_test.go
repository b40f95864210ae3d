package server_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"yahtzee-server/internal/dice"
	"yahtzee-server/internal/server"
	"yahtzee-server/internal/yahtzee"
)

func newRedisStore(t *testing.T) *server.RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return server.NewRedisStore(rdb)
}

func TestRedisStoreGameRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	stored := server.StoredGame{
		ID: "g1",
		Memento: yahtzee.Memento{
			Players:   []string{"Alice", "Bob"},
			Scores:    []yahtzee.Scorecard{{yahtzee.Ones: 3}, {}},
			InTurn:    1,
			Roll:      dice.Roll{1, 2, 3, 4, 5},
			RollsLeft: 1,
		},
	}
	if err := store.AddGame(ctx, stored).Error(); err != nil {
		t.Fatalf("AddGame: %v", err)
	}

	loaded, err := store.Game(ctx, "g1").Value()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if loaded.InTurn != 1 || loaded.Roll != stored.Roll {
		t.Errorf("Game = %+v", loaded)
	}
	if loaded.Scores[0][yahtzee.Ones] != 3 {
		t.Errorf("scorecard lost in round trip: %+v", loaded.Scores)
	}

	games, err := store.Games(ctx).Value()
	if err != nil {
		t.Fatalf("Games: %v", err)
	}
	if len(games) != 1 {
		t.Errorf("Games returned %d entries, want 1", len(games))
	}
}

func TestRedisStoreGameNotFound(t *testing.T) {
	store := newRedisStore(t)

	err := store.Game(context.Background(), "missing").Error()
	var notFound server.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Game error = %v, want NotFoundError", err)
	}
}

func TestRedisStoreReplaceGameRequiresExisting(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	err := store.ReplaceGame(ctx, server.StoredGame{ID: "g1"}).Error()
	var notFound server.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ReplaceGame on missing id = %v, want NotFoundError", err)
	}

	store.AddGame(ctx, server.StoredGame{ID: "g1"})
	replaced := server.StoredGame{ID: "g1", Memento: yahtzee.Memento{InTurn: 1}}
	if err := store.ReplaceGame(ctx, replaced).Error(); err != nil {
		t.Fatalf("ReplaceGame: %v", err)
	}
	loaded, _ := store.Game(ctx, "g1").Value()
	if loaded.InTurn != 1 {
		t.Errorf("ReplaceGame did not persist: %+v", loaded)
	}
}

func TestRedisStorePendingLifecycle(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	added, err := store.AddPending(ctx, server.PendingGame{
		Creator:         "Alice",
		NumberOfPlayers: 2,
		Players:         []string{"Alice"},
		Pending:         true,
	}).Value()
	if err != nil {
		t.Fatalf("AddPending: %v", err)
	}
	if added.ID == "" {
		t.Fatal("AddPending did not assign an id")
	}

	pendings, err := store.PendingGames(ctx).Value()
	if err != nil {
		t.Fatalf("PendingGames: %v", err)
	}
	if len(pendings) != 1 || pendings[0].Creator != "Alice" {
		t.Errorf("PendingGames = %+v", pendings)
	}

	added.Players = append(added.Players, "Bob")
	if err := store.ReplacePending(ctx, added).Error(); err != nil {
		t.Fatalf("ReplacePending: %v", err)
	}
	loaded, _ := store.PendingGame(ctx, added.ID).Value()
	if len(loaded.Players) != 2 {
		t.Errorf("PendingGame = %+v", loaded)
	}

	if err := store.DeletePending(ctx, added.ID).Error(); err != nil {
		t.Fatalf("DeletePending: %v", err)
	}
	var notFound server.NotFoundError
	if !errors.As(store.PendingGame(ctx, added.ID).Error(), &notFound) {
		t.Error("pending game survived DeletePending")
	}
	if !errors.As(store.DeletePending(ctx, added.ID).Error(), &notFound) {
		t.Error("second DeletePending did not report NotFoundError")
	}

	pendings, _ = store.PendingGames(ctx).Value()
	if len(pendings) != 0 {
		t.Errorf("index still lists deleted pending game: %+v", pendings)
	}
}

func TestRedisStoreBacksCoordinator(t *testing.T) {
	coordinator, _ := newTestCoordinator(newRedisStore(t))
	id := startedGame(t, coordinator)

	if err := coordinator.Register(context.Background(), id, yahtzee.Chance, "Alice").Error(); err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, err := coordinator.Game(context.Background(), id).Value()
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if stored.Scores[0][yahtzee.Chance] != 5 {
		t.Errorf("chance = %d, want 5", stored.Scores[0][yahtzee.Chance])
	}
}

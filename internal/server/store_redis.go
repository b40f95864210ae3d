package server

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"yahtzee-server/internal/result"
)

// RedisStore keeps each record as a JSON value with a set index per
// record kind, so listing does not scan the keyspace.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) keyGame(id string) string    { return "yahtzee:game:" + id }
func (s *RedisStore) keyPending(id string) string { return "yahtzee:pending:" + id }
func (s *RedisStore) idxGames() string            { return "yahtzee:games" }
func (s *RedisStore) idxPending() string          { return "yahtzee:pendings" }

func (s *RedisStore) Games(ctx context.Context) result.Result[[]StoredGame] {
	return listValues[StoredGame](ctx, s.rdb, s.idxGames(), s.keyGame)
}

func (s *RedisStore) Game(ctx context.Context, id string) result.Result[StoredGame] {
	return getValue[StoredGame](ctx, s.rdb, s.keyGame(id), id)
}

func (s *RedisStore) AddGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	return s.setGame(ctx, game)
}

func (s *RedisStore) ReplaceGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	exists, err := s.rdb.Exists(ctx, s.keyGame(game.ID)).Result()
	if err != nil {
		return result.Err[StoredGame](StoreError{Cause: err})
	}
	if exists == 0 {
		return result.Err[StoredGame](NotFoundError{Key: game.ID})
	}
	return s.setGame(ctx, game)
}

func (s *RedisStore) setGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	raw, err := json.Marshal(game)
	if err != nil {
		return result.Err[StoredGame](StoreError{Cause: err})
	}
	if err := s.rdb.Set(ctx, s.keyGame(game.ID), raw, 0).Err(); err != nil {
		return result.Err[StoredGame](StoreError{Cause: err})
	}
	if err := s.rdb.SAdd(ctx, s.idxGames(), game.ID).Err(); err != nil {
		return result.Err[StoredGame](StoreError{Cause: err})
	}
	return result.Ok(game)
}

func (s *RedisStore) PendingGames(ctx context.Context) result.Result[[]PendingGame] {
	return listValues[PendingGame](ctx, s.rdb, s.idxPending(), s.keyPending)
}

func (s *RedisStore) PendingGame(ctx context.Context, id string) result.Result[PendingGame] {
	return getValue[PendingGame](ctx, s.rdb, s.keyPending(id), id)
}

func (s *RedisStore) AddPending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	pending.ID = uuid.New().String()
	return s.setPending(ctx, pending)
}

func (s *RedisStore) ReplacePending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	exists, err := s.rdb.Exists(ctx, s.keyPending(pending.ID)).Result()
	if err != nil {
		return result.Err[PendingGame](StoreError{Cause: err})
	}
	if exists == 0 {
		return result.Err[PendingGame](NotFoundError{Key: pending.ID})
	}
	return s.setPending(ctx, pending)
}

func (s *RedisStore) setPending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	raw, err := json.Marshal(pending)
	if err != nil {
		return result.Err[PendingGame](StoreError{Cause: err})
	}
	if err := s.rdb.Set(ctx, s.keyPending(pending.ID), raw, 0).Err(); err != nil {
		return result.Err[PendingGame](StoreError{Cause: err})
	}
	if err := s.rdb.SAdd(ctx, s.idxPending(), pending.ID).Err(); err != nil {
		return result.Err[PendingGame](StoreError{Cause: err})
	}
	return result.Ok(pending)
}

func (s *RedisStore) DeletePending(ctx context.Context, id string) result.Result[struct{}] {
	deleted, err := s.rdb.Del(ctx, s.keyPending(id)).Result()
	if err != nil {
		return result.Err[struct{}](StoreError{Cause: err})
	}
	if deleted == 0 {
		return result.Err[struct{}](NotFoundError{Key: id})
	}
	if err := s.rdb.SRem(ctx, s.idxPending(), id).Err(); err != nil {
		return result.Err[struct{}](StoreError{Cause: err})
	}
	return result.Ok(struct{}{})
}

func listValues[T any](ctx context.Context, rdb *redis.Client, index string, key func(string) string) result.Result[[]T] {
	ids, err := rdb.SMembers(ctx, index).Result()
	if err != nil {
		return result.Err[[]T](StoreError{Cause: err})
	}

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		raw, err := rdb.Get(ctx, key(id)).Bytes()
		if err == redis.Nil {
			// Index entry without a value; skip rather than fail the
			// whole listing.
			continue
		}
		if err != nil {
			return result.Err[[]T](StoreError{Cause: err})
		}
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return result.Err[[]T](StoreError{Cause: err})
		}
		records = append(records, record)
	}
	return result.Ok(records)
}

func getValue[T any](ctx context.Context, rdb *redis.Client, key, id string) result.Result[T] {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return result.Err[T](NotFoundError{Key: id})
	}
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	return result.Ok(record)
}

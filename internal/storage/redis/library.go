// Package redis implements the NPC library on a Redis hash plus a sorted set
// that records first-save order.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/npcforge/internal/config"
	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/library"
)

// NewClient builds a client from cfg. Redis connects lazily; use Ping to
// verify reachability.
//
// Precondition: cfg.Addr must be non-empty.
func NewClient(cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis: addr is required")
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

// LibraryStore keeps records in <prefix>:records (id → JSON) and their order
// in <prefix>:order, scored by a counter at <prefix>:seq.
type LibraryStore struct {
	client goredis.Cmdable
	prefix string
}

// NewLibraryStore wraps client.
//
// Precondition: client must be non-nil and prefix non-empty.
func NewLibraryStore(client goredis.Cmdable, prefix string) *LibraryStore {
	return &LibraryStore{client: client, prefix: prefix}
}

// RecordsKey returns the hash key holding serialized records.
func (s *LibraryStore) RecordsKey() string { return s.prefix + ":records" }

// OrderKey returns the sorted-set key holding save order.
func (s *LibraryStore) OrderKey() string { return s.prefix + ":order" }

// SeqKey returns the counter key used to score new records.
func (s *LibraryStore) SeqKey() string { return s.prefix + ":seq" }

// putScript saves one record. Redis stops a script at the first failing
// call, so the record is never written without its order entry. ZADD NX
// leaves an existing record's score untouched so updates keep their position.
//
// KEYS: records, order, seq. ARGV: id, record JSON.
var putScript = goredis.NewScript(`
local seq = redis.call('INCR', KEYS[3])
redis.call('ZADD', KEYS[2], 'NX', seq, ARGV[1])
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return seq
`)

// Put implements library.Store.
func (s *LibraryStore) Put(ctx context.Context, rec *npc.NPC) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding npc: %w", err)
	}
	keys := []string{s.RecordsKey(), s.OrderKey(), s.SeqKey()}
	if err := putScript.Run(ctx, s.client, keys, rec.ID, string(raw)).Err(); err != nil {
		return fmt.Errorf("storing npc %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements library.Store.
func (s *LibraryStore) Get(ctx context.Context, id string) (*npc.NPC, error) {
	raw, err := s.client.HGet(ctx, s.RecordsKey(), id).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, library.ErrNotFound
		}
		return nil, fmt.Errorf("getting npc %s: %w", id, err)
	}
	return library.Decode([]byte(raw))
}

// List implements library.Store.
func (s *LibraryStore) List(ctx context.Context) ([]*npc.NPC, error) {
	ids, err := s.client.ZRevRange(ctx, s.OrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing npc order: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	vals, err := s.client.HMGet(ctx, s.RecordsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("listing npcs: %w", err)
	}

	out := make([]*npc.NPC, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Order entry without a record; skip it.
			continue
		}
		rec, err := library.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete implements library.Store.
func (s *LibraryStore) Delete(ctx context.Context, id string) error {
	var hdel *goredis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		hdel = pipe.HDel(ctx, s.RecordsKey(), id)
		pipe.ZRem(ctx, s.OrderKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting npc %s: %w", id, err)
	}
	if hdel.Val() == 0 {
		return library.ErrNotFound
	}
	return nil
}

// Count implements library.Store.
func (s *LibraryStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.RecordsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("counting npcs: %w", err)
	}
	return int(n), nil
}

// Clear implements library.Store.
func (s *LibraryStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.RecordsKey(), s.OrderKey(), s.SeqKey()).Err(); err != nil {
		return fmt.Errorf("clearing npcs: %w", err)
	}
	return nil
}

// Package redis implements poll storage on top of Redis, where votes are
// counted with server-side atomic increments.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Semior001/newsreader/app/store"
	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "newsreader:"

// incrScript increments the option only if it exists, -1 otherwise.
var incrScript = goredis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
	return -1
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
`)

// Polls is a store.PollStore backed by Redis.
// Poll metadata is kept in a hash, vote counts in a separate hash,
// and a sorted set orders polls by creation time.
type Polls struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewPolls connects to Redis at the given URL (e.g. redis://:pass@host:6379/0).
func NewPolls(ctx context.Context, redisURL, prefix string) (*Polls, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := goredis.NewClient(opt)
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewPollsWithClient(rdb, prefix), nil
}

// NewPollsWithClient makes Polls over an existing client.
func NewPollsWithClient(rdb goredis.UniversalClient, prefix string) *Polls {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Polls{rdb: rdb, prefix: prefix}
}

func (p *Polls) indexKey() string          { return p.prefix + "polls" }
func (p *Polls) metaKey(id string) string  { return p.prefix + "poll:" + id }
func (p *Polls) votesKey(id string) string { return p.prefix + "poll:" + id + ":votes" }

// CreatePoll stores poll and its initial counts in a single transaction.
func (p *Polls) CreatePoll(ctx context.Context, poll store.Poll) error {
	votes := make(map[string]any, len(poll.Options))
	for opt, cnt := range poll.Options {
		votes[opt] = cnt
	}

	_, err := p.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, p.metaKey(poll.ID), map[string]any{
			"question":   poll.Question,
			"created_at": poll.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if len(votes) > 0 {
			pipe.HSet(ctx, p.votesKey(poll.ID), votes)
		}
		pipe.ZAdd(ctx, p.indexKey(), goredis.Z{
			Score:  float64(poll.CreatedAt.UnixMilli()),
			Member: poll.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("create poll %s: %w", poll.ID, err)
	}

	return nil
}

// LatestPoll returns the most recently created poll.
func (p *Polls) LatestPoll(ctx context.Context) (store.Poll, error) {
	ids, err := p.rdb.ZRevRange(ctx, p.indexKey(), 0, 0).Result()
	if err != nil {
		return store.Poll{}, fmt.Errorf("get latest poll id: %w", err)
	}

	if len(ids) == 0 {
		return store.Poll{}, store.ErrNotFound
	}

	return p.get(ctx, ids[0])
}

// IncrementVote increments the option counter with HINCRBY.
func (p *Polls) IncrementVote(ctx context.Context, pollID, option string) (int, error) {
	exists, err := p.rdb.Exists(ctx, p.metaKey(pollID)).Result()
	if err != nil {
		return 0, fmt.Errorf("check poll %s: %w", pollID, err)
	}

	if exists == 0 {
		return 0, store.ErrNotFound
	}

	cnt, err := incrScript.Run(ctx, p.rdb, []string{p.votesKey(pollID)}, option).Int()
	if err != nil {
		return 0, fmt.Errorf("increment vote: %w", err)
	}

	if cnt < 0 {
		return 0, store.ErrUnknownOption
	}

	return cnt, nil
}

// Close closes the client.
func (p *Polls) Close() error { return p.rdb.Close() }

func (p *Polls) get(ctx context.Context, id string) (store.Poll, error) {
	meta, err := p.rdb.HGetAll(ctx, p.metaKey(id)).Result()
	if err != nil {
		return store.Poll{}, fmt.Errorf("get poll %s: %w", id, err)
	}

	if len(meta) == 0 {
		return store.Poll{}, store.ErrNotFound
	}

	votes, err := p.rdb.HGetAll(ctx, p.votesKey(id)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return store.Poll{}, fmt.Errorf("get poll %s votes: %w", id, err)
	}

	poll := store.Poll{ID: id, Question: meta["question"], Options: make(map[string]int, len(votes))}

	if poll.CreatedAt, err = time.Parse(time.RFC3339Nano, meta["created_at"]); err != nil {
		return store.Poll{}, fmt.Errorf("parse poll %s creation time: %w", id, err)
	}

	for opt, v := range votes {
		if poll.Options[opt], err = strconv.Atoi(v); err != nil {
			return store.Poll{}, fmt.Errorf("parse votes of %q: %w", opt, err)
		}
	}

	return poll, nil
}

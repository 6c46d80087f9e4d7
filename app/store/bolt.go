package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	postsBktName       = "posts"
	pollsBktName       = "polls"
	pollsByTimeBktName = "polls_by_time"
	profilesBktName    = "profiles"
	kvBktName          = "kv"
)

// Bolt is a storage that uses BoltDB as a backend.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage.
func NewBolt(dir string) (*Bolt, error) {
	db, err := bolt.Open(path.Join(dir, "newsreader.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", dir, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{postsBktName, pollsBktName, pollsByTimeBktName, profilesBktName, kvBktName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create top-level bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// PutPost puts post to storage.
func (b *Bolt) PutPost(_ context.Context, p Post) error {
	if err := b.put(postsBktName, p.ID, p); err != nil {
		return fmt.Errorf("put post %s: %w", p.ID, err)
	}
	return nil
}

// ListPosts returns all posts from storage.
func (b *Bolt) ListPosts(context.Context) (map[string]Post, error) {
	result := map[string]Post{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(postsBktName))
		err := bkt.ForEach(func(k, v []byte) error {
			var p Post
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshal post %s: %w", k, err)
			}
			result[string(k)] = p
			return nil
		})
		if err != nil {
			return fmt.Errorf("foreach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}
	return result, nil
}

// CreatePoll puts poll to storage and indexes it by creation time.
func (b *Bolt) CreatePoll(_ context.Context, p Poll) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bts, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal poll: %w", err)
		}

		if err = tx.Bucket([]byte(pollsBktName)).Put([]byte(p.ID), bts); err != nil {
			return fmt.Errorf("put poll: %w", err)
		}

		if err = tx.Bucket([]byte(pollsByTimeBktName)).Put(timeKey(p), []byte(p.ID)); err != nil {
			return fmt.Errorf("put poll index: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// LatestPoll returns the most recently created poll.
func (b *Bolt) LatestPoll(context.Context) (p Poll, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		_, id := tx.Bucket([]byte(pollsByTimeBktName)).Cursor().Last()
		if id == nil {
			return ErrNotFound
		}

		bts := tx.Bucket([]byte(pollsBktName)).Get(id)
		if bts == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bts, &p); err != nil {
			return fmt.Errorf("unmarshal poll %s: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return Poll{}, fmt.Errorf("view storage: %w", err)
	}

	return p, nil
}

// IncrementVote adds a vote to the option within a single write transaction,
// so concurrent voters never lose an increment.
func (b *Bolt) IncrementVote(_ context.Context, pollID, option string) (cnt int, err error) {
	err = b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(pollsBktName))

		bts := bkt.Get([]byte(pollID))
		if bts == nil {
			return ErrNotFound
		}

		var p Poll
		if err := json.Unmarshal(bts, &p); err != nil {
			return fmt.Errorf("unmarshal poll: %w", err)
		}

		if _, ok := p.Options[option]; !ok {
			return ErrUnknownOption
		}

		p.Options[option]++
		cnt = p.Options[option]

		if bts, err = json.Marshal(p); err != nil {
			return fmt.Errorf("marshal poll: %w", err)
		}

		if err := bkt.Put([]byte(pollID), bts); err != nil {
			return fmt.Errorf("put poll: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update storage: %w", err)
	}

	return cnt, nil
}

// PutProfile puts profile to storage.
func (b *Bolt) PutProfile(_ context.Context, p Profile) error {
	if err := b.put(profilesBktName, p.ID, p); err != nil {
		return fmt.Errorf("put profile %s: %w", p.ID, err)
	}
	return nil
}

// ListProfiles returns all profiles from storage.
func (b *Bolt) ListProfiles(context.Context) ([]Profile, error) {
	var result []Profile
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(profilesBktName))
		err := bkt.ForEach(func(k, v []byte) error {
			var p Profile
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("unmarshal profile %s: %w", k, err)
			}
			result = append(result, p)
			return nil
		})
		if err != nil {
			return fmt.Errorf("foreach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view storage: %w", err)
	}
	return result, nil
}

// GetProfile returns profile from storage.
func (b *Bolt) GetProfile(_ context.Context, id string) (p Profile, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(profilesBktName))

		bts := bkt.Get([]byte(id))
		if bts == nil {
			return ErrNotFound
		}

		if err := json.Unmarshal(bts, &p); err != nil {
			return fmt.Errorf("unmarshal profile: %w", err)
		}

		return nil
	})
	if err != nil {
		return Profile{}, fmt.Errorf("view storage: %w", err)
	}

	return p, nil
}

// DeleteProfile removes profile from storage.
func (b *Bolt) DeleteProfile(_ context.Context, id string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(profilesBktName))

		if err := bkt.Delete([]byte(id)); err != nil {
			return fmt.Errorf("remove: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// GetValue returns raw value by key.
func (b *Bolt) GetValue(_ context.Context, key string) (val string, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bts := tx.Bucket([]byte(kvBktName)).Get([]byte(key))
		if bts == nil {
			return ErrNotFound
		}
		val = string(bts)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("view storage: %w", err)
	}
	return val, nil
}

// SetValue sets raw value by key.
func (b *Bolt) SetValue(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(kvBktName)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}
	return nil
}

// Close closes the storage.
func (b *Bolt) Close() error { return b.db.Close() }

func (b *Bolt) put(bktName, key string, v any) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(bktName))

		bts, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}

		if err := bkt.Put([]byte(key), bts); err != nil {
			return fmt.Errorf("put to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}

	return nil
}

// timeKey orders polls by creation time, id breaks ties.
// Polls without time or created before 1970 go first.
func timeKey(p Poll) []byte {
	var ts uint64
	if p.CreatedAt.After(time.Unix(0, 0)) {
		ts = uint64(p.CreatedAt.UnixNano())
	}

	key := make([]byte, 8, 8+len(p.ID))
	binary.BigEndian.PutUint64(key, ts)
	return append(key, p.ID...)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/mbt/pkg/adapters/memory"
	"github.com/aretw0/mbt/pkg/adapters/redis"
	"github.com/aretw0/mbt/pkg/adapters/sqlite"
	"github.com/aretw0/mbt/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// OpenStore opens the run store named by opts.Store: "" (none), memory, redis or sqlite.
// The returned close func is never nil.
func OpenStore(opts RunOptions) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(opts.Store) {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return memory.NewStore(), noop, nil
	case "redis":
		if strings.Contains(opts.RedisURL, "://") {
			redisOpts, err := backend.ParseURL(opts.RedisURL)
			if err != nil {
				return nil, noop, fmt.Errorf("invalid redis url: %w", err)
			}
			store := redis.NewFromClient(backend.NewClient(redisOpts))
			return store, store.Close, nil
		}
		store := redis.New(opts.RedisURL)
		return store, store.Close, nil
	case "sqlite":
		store, err := sqlite.NewStore(opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store '%s' (expected memory, redis or sqlite)", opts.Store)
}

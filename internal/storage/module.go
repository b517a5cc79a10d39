package storage

import (
	"context"

	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/requester"
	"go.uber.org/fx"
)

func newStore(lc fx.Lifecycle, cfg *config.StorageConfig) (*Store, error) {
	store, err := Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// Module opens the local store and offers it as the requester's token source.
var Module = fx.Module("storage",
	fx.Provide(
		newStore,
		func(s *Store) requester.TokenSource { return s },
	),
)

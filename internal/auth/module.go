package auth

import (
	"github.com/darc-project/darc/internal/storage"
	"go.uber.org/fx"
)

// Module provides the auth client backed by local storage
var Module = fx.Module("auth",
	fx.Provide(
		func(s *storage.Store) TokenStore { return s },
		NewClient,
	),
)

package main

import (
	"context"
	"time"

	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/requester"
	"github.com/darc-project/darc/internal/storage"
	"go.uber.org/fx"
)

const stopTimeout = 5 * time.Second

// coreModules is everything the terminal commands share
func coreModules() fx.Option {
	return fx.Options(
		config.Module(cfg),
		logger.Module,
		storage.Module,
		requester.Module,
		analysis.Module,
		auth.Module,
	)
}

// startApp builds and starts an fx app around the core modules, filling
// targets. The returned stop func closes the local store.
func startApp(ctx context.Context, targets ...interface{}) (func(), error) {
	app := fx.New(
		coreModules(),
		fx.Populate(targets...),
	)
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}, nil
}

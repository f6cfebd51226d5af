package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/yozuk/yozuk-sub000/pkg/config"
	"github.com/yozuk/yozuk-sub000/pkg/logger"
	"github.com/yozuk/yozuk-sub000/pkg/sdk"
	"github.com/yozuk/yozuk-sub000/pkg/version"
	"github.com/yozuk/yozuk-sub000/pkg/yozuk"
)

func environment() sdk.Environment {
	return sdk.Environment{BuildInfo: version.Get().BuildInfo()}
}

// loadEngine reads the model set named by the configuration and builds the
// engine. Skills that fail to start are reported and skipped.
func loadEngine(ctx context.Context, cfg *config.Config) (*yozuk.Engine, error) {
	opts := append(cfg.BuilderOptions(),
		yozuk.WithEnvironment(environment()),
		yozuk.WithLogger(logger.G(ctx)),
	)
	b, err := yozuk.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.Model)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model set %s (run `yozuk modelgen` first)", cfg.Model)
	}
	engine, err := b.Load(data)
	if err != nil {
		return nil, err
	}
	if err := engine.InitErrors(); err != nil {
		out.Warning(err.Error())
	}
	return engine, nil
}

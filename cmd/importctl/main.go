package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mohammadpnp/account-import/internal/bootstrap"
	"github.com/mohammadpnp/account-import/internal/config"
	"github.com/mohammadpnp/account-import/internal/interfaces/cli"
	"github.com/mohammadpnp/account-import/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(func(configFile string) (cli.Deps, func(), error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return cli.Deps{}, nil, err
		}

		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return cli.Deps{}, nil, err
		}

		container, err := bootstrap.NewContainer(ctx, cfg, logger)
		if err != nil {
			_ = logger.Sync()
			return cli.Deps{}, nil, err
		}

		deps := cli.Deps{
			RunImport:      container.RunImport,
			PasswordSignIn: container.PasswordSignIn,
			Watcher:        container.Watcher,
		}
		return deps, func() {
			container.Close()
			_ = logger.Sync()
		}, nil
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

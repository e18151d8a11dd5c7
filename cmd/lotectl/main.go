package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/lotetracker/internal/bootstrap"
	"github.com/jhoicas/lotetracker/internal/interfaces/cli"
	"github.com/jhoicas/lotetracker/pkg/config"
	"github.com/jhoicas/lotetracker/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var built *bootstrap.Container
	root := cli.NewRootCmd(func(ctx context.Context) (*cli.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// stderr: stdout queda para la salida de los comandos (payloads, tablas)
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
		c, err := bootstrap.Build(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		built = c
		return &cli.App{
			Registry:    c.Registry,
			QR:          c.QR,
			Stats:       c.Stats,
			Index:       c.Index,
			Suggest:     c.Suggest,
			GracePeriod: cfg.Suggest.GracePeriod,
		}, nil
	})
	err := root.ExecuteContext(ctx)
	if built != nil {
		_ = built.Close(context.Background())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

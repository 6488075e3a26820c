package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kremlit/leadharvest/runner"
	"github.com/kremlit/leadharvest/runner/installplaywright"
	"github.com/kremlit/leadharvest/runner/scraperunner"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner.Banner()

	cfg := runner.ParseConfig()

	log, err := runner.InitLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer func() {
		_ = log.Sync()
	}()

	if err := cfg.Normalize(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan

		log.Warn("received signal, shutting down")

		cancel()
	}()

	runnerInstance, err := runnerFactory(cfg, log)
	if err != nil {
		cancel()
		log.Error(err)
		_ = runner.Telemetry(cfg).Close()

		os.Exit(1)
	}

	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		if err := runnerInstance.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		return nil
	})

	if err := egroup.Wait(); err != nil {
		log.Error(err)
		_ = runnerInstance.Close(ctx)
		_ = runner.Telemetry(cfg).Close()

		os.Exit(1)
	}

	_ = runnerInstance.Close(ctx)
	_ = runner.Telemetry(cfg).Close()
}

func runnerFactory(cfg *runner.Config, log *zap.SugaredLogger) (runner.Runner, error) {
	switch cfg.RunMode {
	case runner.RunModeScrape:
		return scraperunner.New(cfg, log)
	case runner.RunModeInstallPlaywright:
		return installplaywright.New(cfg)
	default:
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}
}

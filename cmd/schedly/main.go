package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/adapter/cli/busy"
	"github.com/felixgeelhaar/schedly/adapter/cli/cache"
	"github.com/felixgeelhaar/schedly/adapter/cli/group"
	"github.com/felixgeelhaar/schedly/adapter/cli/recommend"
	"github.com/felixgeelhaar/schedly/adapter/cli/snapshot"
	"github.com/felixgeelhaar/schedly/internal/app"
	"github.com/felixgeelhaar/schedly/pkg/config"
	"github.com/felixgeelhaar/schedly/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logConfig := observability.DefaultLogConfig()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(logConfig).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logConfig.Level = cfg.LogLevel
	logConfig.Format = observability.LogFormat(cfg.LogFormat)
	logConfig.Environment = cfg.AppEnv
	logger := observability.NewLogger(logConfig)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// Commands print a hint instead of failing when no app is set.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
		cli.SetApp(nil)
	} else {
		defer container.Close()

		cliApp := cli.NewApp(
			container.RecommendHandler,
			container.GetSnapshotHandler,
			container.InvalidateRecommendationsHandler,
			container.RecordEntryHandler,
			container.UpdateEntryHandler,
			container.RemoveEntryHandler,
			container.ListEntriesHandler,
			container.AddMemberHandler,
			container.RemoveMemberHandler,
			container.ListGroupMembersHandler,
			container.ListGroupsForUserHandler,
		)
		// Schedule writes relay their events before the command returns.
		cliApp.SetFlusher(container.Flush)
		cliApp.SetHealth(container.Health)
		cli.SetApp(cliApp)
	}

	cli.AddCommand(recommend.Cmd)
	cli.AddCommand(snapshot.Cmd)
	cli.AddCommand(cache.Cmd)
	cli.AddCommand(busy.Cmd)
	cli.AddCommand(group.Cmd)

	cli.Execute()
}

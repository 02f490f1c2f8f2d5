package main

import (
	"context"
	"time"

	"paydown/internal/cli"
	"paydown/internal/download"
	"paydown/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentDownloader)

	logger.Info("Starting paydown-downloader")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	downloader := download.New(cfg.DownloadDir, cfg.EpisodeURLPattern, cfg.EpisodeWeekday, sqliteRepo)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		logger.Info("Stopping downloader")
	})

	logger.Info("Downloader configured",
		"download_dir", cfg.DownloadDir,
		"episode_weekday", cfg.EpisodeWeekday.String(),
		"interval", cfg.DownloadInterval)

	runPass := func(ctx context.Context) {
		count, err := downloader.Run(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("Download pass failed", "error", err)
			}
			return
		}
		logger.Info("Download pass finished", "episodes", count)
	}

	// One pass at startup, then on the configured interval.
	go func() {
		runPass(ctx)

		ticker := time.NewTicker(cfg.DownloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runPass(ctx)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

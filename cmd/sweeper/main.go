package main

import (
	"context"
	"os"

	"atrium/config"
	"atrium/di"
	"atrium/shared/logger"

	"github.com/rs/zerolog/log"
)

// The sweeper is a one-shot job meant to run on a schedule (cron or a
// Kubernetes CronJob). It marks approved bookings whose end time has
// passed as completed and exits.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeSweeper()

	swept, err := service.CompletionSweep(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("completion sweep failed")
		os.Exit(1)
	}

	log.Info().Int("completed", swept).Msg("completion sweep finished")
}

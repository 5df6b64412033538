package main

import (
	"os"
	"salon/config"
	"salon/helper"
	"salon/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if len(os.Args) < 2 || !helper.IsAction(os.Args[1]) {
		log.Fatal().Strs("actions", helper.Actions()).Msg("Usage: migrate <action>")
	}

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

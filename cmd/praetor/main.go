package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	initLogging()

	root := &cobra.Command{
		Use:   "praetor",
		Short: "Integrity validation and repair engine for guild records",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(repairCmd())
	root.AddCommand(watchCmd())
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// initLogging configures the global zerolog logger from environment.
func initLogging() {
	level, parseErr := zerolog.ParseLevel(os.Getenv("PRAETOR_LOG_LEVEL"))
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("PRAETOR_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/praetorlabs/praetor/internal/integrity"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <guild-id>",
		Short: "Stream a guild's scan completion events to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}
}

func runWatch(cmd *cobra.Command, guildID string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	sub, err := a.pubsub.Subscribe(ctx, integrity.ScanChannel(guildID))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sub.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing subscription")
		}
	}()

	log.Info().Str("guild_id", guildID).Msg("watching scan events")

	// One JSON event per line until interrupted.
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-sub.C():
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stdout, string(payload))
		}
	}
}

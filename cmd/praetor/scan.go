package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/praetorlabs/praetor/internal/integrity"
)

func scanCmd() *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "scan <guild-id>",
		Short: "Scan a guild's records for integrity issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], deep)
		},
	}
	cmd.Flags().BoolVar(&deep, "deep", false, "also verify two-hop references")

	return cmd
}

func runScan(cmd *cobra.Command, guildID string, deep bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	vc := a.scanContext(guildID)

	var report *integrity.Report
	if deep {
		report = a.scanner.DeepScan(ctx, guildID, vc)
	} else {
		report = a.scanner.Scan(ctx, guildID, vc)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/praetorlabs/praetor/internal/integrity"
)

func repairCmd() *cobra.Command {
	var (
		dryRun bool
		smart  bool
	)

	cmd := &cobra.Command{
		Use:   "repair <guild-id>",
		Short: "Scan a guild and apply automated repairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, args[0], dryRun, smart)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report repairs without applying them")
	cmd.Flags().BoolVar(&smart, "smart", false, "retry transiently failing repairs")

	return cmd
}

func runRepair(cmd *cobra.Command, guildID string, dryRun, smart bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	vc := a.scanContext(guildID)
	vc.RepairMode = true

	report := a.scanner.Scan(ctx, guildID, vc)

	var result *integrity.RepairResult
	switch {
	case dryRun:
		result = a.engine.Repair(ctx, report.Issues, integrity.Options{DryRun: true})
	case smart:
		result = a.engine.SmartRepair(ctx, report.Issues, integrity.SmartOptions{MaxRetries: a.cfg.Integrity.MaxRetries})
	default:
		result = a.engine.Repair(ctx, report.Issues, integrity.Options{})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"report": report,
		"result": result,
	})
}

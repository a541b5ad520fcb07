package main

import (
	"encoding/json"
	"fmt"

	"github.com/sdko-org/vertical-padding/internal/config"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sdko-org/vertical-padding/internal/service"
	"github.com/spf13/cobra"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the padding for one address and print it as JSON",
	RunE:  runCompute,
}

var (
	computeAddress    string
	computeHorizontal int
	computePeak       bool
	computeDryRun     bool
)

func init() {
	computeCmd.Flags().StringVarP(&computeAddress, "address", "a", "", "Destination address (required)")
	computeCmd.Flags().IntVar(&computeHorizontal, "horizontal", 0, "Horizontal travel time in seconds")
	computeCmd.Flags().BoolVar(&computePeak, "peak", false, "Request falls in peak hours")
	computeCmd.Flags().BoolVar(&computeDryRun, "dry-run", false, "Keep the cache and run log in memory instead of the configured backends")
	_ = computeCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(computeCmd)
}

func runCompute(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.SetOutput(cmd.ErrOrStderr())

	a, err := newApp(cfg, logger, observability.NewUnregisteredMetrics(), computeDryRun)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() { _ = a.Close() }()

	res, err := a.service.Handle(cmd.Context(), service.Request{
		Address:       computeAddress,
		HorizontalSec: computeHorizontal,
		IsPeak:        computePeak,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

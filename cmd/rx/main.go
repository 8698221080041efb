package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"corelink/internal/app"
)

func main() {
	var config app.RXConfig

	rootCmd := &cobra.Command{
		Use:   "rx",
		Short: "Receive files over the CPU-contention side channel",
		Long: `rx samples a shared CPU core's load at a fixed rate, despreads the
samples against the same pseudorandom code tx drives, recovers the bit
clock, and reassembles and CRC-checks packets.

Every CRC-valid packet is written to --out-dir as <epoch_nanoseconds>.bin.
rx runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion("rx")
				return nil
			}

			rx, err := app.NewReceiver(config)
			if err != nil {
				return err
			}
			return rx.Run()
		},
	}

	rootCmd.Flags().StringVarP(&config.OutDir, "out-dir", "o", app.DefaultOutDir, "Directory to write received packets into")
	rootCmd.Flags().BoolVar(&config.Heatmap, "heatmap", false, "Log per-channel correlation diagnostics")
	rootCmd.Flags().StringVarP(&config.LogDir, "log-dir", "l", "", "Directory for a rotating on-disk log (stdout only if unset)")
	rootCmd.Flags().BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"corelink/internal/app"
)

func main() {
	var config app.TXConfig

	rootCmd := &cobra.Command{
		Use:   "tx <file>",
		Short: "Transmit a file over the CPU-contention side channel",
		Long: `tx occupies and releases a shared CPU core in phase-locked intervals to
encode a file's bytes as observable load, framed as a single CRC-16
protected packet bracketed by frame delimiters.

Run alongside rx on a neighboring process or VM sharing the same physical
core to carry the file across without any direct network path between
them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion("tx")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			config.FilePath = args[0]

			tx := app.NewTransmitter(config)
			return tx.Run()
		},
	}

	rootCmd.Flags().StringVarP(&config.LogDir, "log-dir", "l", "", "Directory for a rotating on-disk log (stdout only if unset)")
	rootCmd.Flags().BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"go-pos-terminal/internal/config"
	"go-pos-terminal/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "pos",
	Short:        "Single-store point of sale terminal",
	Long:         "Runs the till backend: catalogue, cart, checkout, shifts and receipts over a local JSON API.",
	SilenceUsage: true,
	// no subcommand means serve
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "pos-terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	return cfg, logg, nil
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/storage"
)

var (
	docPath string
	verbose bool
	cfg     *storage.Config
)

var rootCmd = &cobra.Command{
	Use:   "bmorg",
	Short: "Organize Netscape bookmark files",
	Long: `bmorg reads, reorganizes, and writes browser bookmark export files
in the Netscape bookmark format.

It provides commands to inspect, sort, deduplicate, merge, search, and
classify bookmarks into folders, either by configurable rules or with
AI assistance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		configPath, err := storage.DefaultConfigFilePath()
		if err != nil {
			return err
		}
		cfg, err = storage.LoadConfig(configPath)
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&docPath, "file", "f", "", "path to the bookmark HTML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

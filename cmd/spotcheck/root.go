package main

import (
	"fmt"
	"os"

	"github.com/aretw0/spotcheck/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spotcheck",
	Short: "Spotcheck runs click-the-right-spot usability tests",
	Long: `Spotcheck shows participants a sequence of screenshots, asks them to click where
they would go to complete a task, records whether each click landed on the target
and finishes with a short questionnaire.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("database", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().String("catalog", "", "Step catalog: sqlite or yaml (overrides config)")
}

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return config.Config{}, err
	}

	overrides := map[string]*string{
		"database": &cfg.Database,
		"catalog":  &cfg.Catalog,
		"addr":     &cfg.Addr,
		"store":    &cfg.Store,
		"images":   &cfg.ImagesDir,
	}
	for name, dst := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	return cfg, cfg.Validate()
}

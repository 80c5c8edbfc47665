package main

import (
	"fmt"
	"os"
	"path/filepath"

	kitconfig "github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/spf13/cobra"

	"github.com/spektr-org/csvlens/config"
	"github.com/spektr-org/csvlens/table"
)

// ============================================================================
// CSVLENS CLI — Profile, translate, chart and export tabular files
// ============================================================================

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs after flags are parsed.
type app struct {
	envFile  string
	conf     *kitconfig.Config
	settings config.Settings
	log      logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "csvlens",
		Short:   "Profile, translate and chart CSV and XLSX files",
		Long:    `csvlens infers column types and statistics, translates text columns through Google Translate, builds chart specifications and exports the results.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load environment variables from this file (default: ./.env if present)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newReportCmd(a),
		newTranslateCmd(a),
		newChartCmd(a),
		newExportCmd(a),
		newLanguagesCmd(a),
		newDetectCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	conf, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	a.conf = conf
	a.settings = config.New(conf)
	a.log = logger.NewLogger().Child("csvlens")
	return nil
}

// loadTable reads and parses a CSV or XLSX file.
func (a *app) loadTable(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	t, err := table.Load(filepath.Base(path), data, a.settings.Table.LoadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return t, nil
}

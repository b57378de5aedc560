// main.go
//
// A Go data service backing the atelier portfolio site and admin console
// Copyright (c) 2026 Atelier Studio <dev@atelier-studio.com>
//
// This file is part of portfoliodb.
// portfoliodb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// portfoliodb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with portfoliodb.
// If not, see <https://www.gnu.org/licenses/>.

// healsort rebuilds the legacy sort_order column when ordering has drifted.
// Each subcommand is one procedure, safe to re-run; do not run while the
// order is being edited in the console.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/atelier-studio/portfoliodb/internal/config"
	"github.com/atelier-studio/portfoliodb/internal/database"
	"github.com/atelier-studio/portfoliodb/internal/repair"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "healsort",
	Short: "Rebuild the legacy sort_order column",
	Long: `Rebuilds the numeric sort_order column across collections and artworks
when the stored order has drifted or is being migrated between schemes.

Each procedure is a full scan and rewrite, deterministic for a stable set of
creation timestamps, and safe to re-run. Per-row update failures are logged
and skipped. Do not run a procedure while the order is being edited.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	},
}

var flatCmd = &cobra.Command{
	Use:   "flat",
	Short: "Flat renumber: dense integers over all artworks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcedure(repair.FlatRenumber)
	},
}

var decimalCmd = &cobra.Command{
	Use:   "decimal",
	Short: "Hierarchical decimal: collection bases with fractional children",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcedure(repair.DecimalAssign)
	},
}

var integersCmd = &cobra.Command{
	Use:   "integers",
	Short: "Hierarchical integers: zero-based renumber per scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcedure(repair.IntegerRenumber)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "f", "", "env file to load before reading configuration")
	rootCmd.AddCommand(flatCmd, decimalCmd, integersCmd)
}

func runProcedure(proc func(*gorm.DB) (repair.Report, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	report, err := proc(db)
	if err != nil {
		return err
	}

	log.Printf("scanned=%d updated=%d skipped=%d", report.Scanned, report.Updated, report.Skipped)
	if report.Skipped > 0 {
		return fmt.Errorf("%d rows skipped; re-run after resolving the logged failures", report.Skipped)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

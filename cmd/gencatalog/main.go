// Command gencatalog writes the parts catalog artifact read by the server.
//
//	gencatalog generate --out data/parts_db.json --seed 1
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnrirwin/fpviraq/internal/catalog"
	"github.com/johnrirwin/fpviraq/internal/logging"
	"github.com/johnrirwin/fpviraq/internal/models"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gencatalog",
		Short: "FPV parts catalog tools",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(inspectCmd())
	return root
}

func generateCmd() *cobra.Command {
	var (
		out  string
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the parts catalog from the enumerated domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(out, seed)
		},
	}

	cmd.Flags().StringVar(&out, "out", "data/parts_db.json", "Output path for the catalog JSON")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the cosmetic random fields")
	return cmd
}

func inspectCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a catalog file and print counts per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}
			counts := make(map[models.Category]int)
			for _, p := range store.All() {
				counts[p.Category]++
			}
			for _, c := range models.AllCategories() {
				if counts[c] > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", c, counts[c])
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", "Total", store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "data/parts_db.json", "Catalog JSON to inspect")
	return cmd
}

func runGenerate(out string, seed uint64) error {
	logger := logging.New(logging.LevelInfo)
	defer logger.Sync()

	parts := catalog.NewGenerator(seed).Generate()

	// Refuse to write an artifact the server would reject
	if _, err := catalog.NewStore(parts); err != nil {
		return fmt.Errorf("generated catalog is invalid: %w", err)
	}

	if err := catalog.WriteFile(out, parts); err != nil {
		return err
	}

	logger.Info("Catalog written", logging.WithFields(map[string]interface{}{
		"path":  out,
		"parts": len(parts),
		"seed":  seed,
	}))
	return nil
}

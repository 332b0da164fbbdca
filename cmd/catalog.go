package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the size and the filter values of the job catalog",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd, map[string]string{"catalog": "catalog"})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		describeCatalog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringP("catalog", "c", "", "job catalog (.xlsx or .csv)")
}

func describeCatalog(cmd *cobra.Command) {
	logger, config := setup()

	cat, err := catalog.Open(config.Catalog)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Catalog:    %s\n", cat.Source())
	fmt.Fprintf(out, "Loaded at:  %s\n", cat.LoadedAt().Format(time.RFC3339))
	fmt.Fprintf(out, "Jobs:       %d\n\n", cat.Len())

	facets := []struct {
		name   string
		values []string
	}{
		{"Locations", cat.Locations()},
		{"Role levels", cat.RoleLevels()},
		{"Sizes", cat.Sizes()},
		{"Industries", cat.Industries()},
	}
	for _, facet := range facets {
		fmt.Fprintf(out, "%s (%d)\n  %s\n", facet.name, len(facet.values), strings.Join(facet.values, "\n  "))
	}
}

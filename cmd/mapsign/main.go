package main

import (
	"fmt"
	"os"

	"github.com/kcmvp/mapq/cmd/mapsign/path"
	"github.com/kcmvp/mapq/cmd/mapsign/query"
	"github.com/kcmvp/mapq/cmd/mapsign/sign"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mapsign",
	Short: "mapsign builds and signs canonical query strings for geographic web services.",
	Long: `mapsign is a command-line companion to the mapq library. It builds
deterministic query strings from loosely-typed parameter mappings, computes
premium-plan request signatures, and converts polyline path strings.`,
}

func init() {
	rootCmd.AddCommand(sign.SignCmd)
	rootCmd.AddCommand(query.QueryCmd)
	rootCmd.AddCommand(path.PathCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

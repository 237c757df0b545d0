package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/nfrund/insightboard/internal/featureflag"
	"github.com/spf13/cobra"
)

var flagsFormat string

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Show the build-time feature flags",
	Long: `Show the feature flags compiled into this binary.

Flags are fixed at build time, for example:
  go build -ldflags "-X github.com/nfrund/insightboard/internal/featureflag.dashboardAddLocked=false"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := featureflag.All()
		out := cmd.OutOrStdout()

		if flagsFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(flags)
		}

		names := make([]string, 0, len(flags))
		for name := range flags {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FLAG\tVALUE")
		for _, name := range names {
			fmt.Fprintf(w, "%s\t%t\n", name, flags[name])
		}
		return w.Flush()
	},
}

func init() {
	flagsCmd.Flags().StringVarP(&flagsFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.AddCommand(flagsCmd)
}

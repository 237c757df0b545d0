package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/insightboard/internal/pubsub"
	"github.com/spf13/cobra"
)

var topicsFormat string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics carried on the message bus",
	RunE: func(cmd *cobra.Command, args []string) error {
		topics := pubsub.Topics()
		out := cmd.OutOrStdout()

		if topicsFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Topics []pubsub.TopicInfo `json:"topics"`
				Count  int                `json:"count"`
			}{topics, len(topics)})
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		fmt.Fprintln(w, "----\t-----------")
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
		}
		return w.Flush()
	},
}

func init() {
	topicsCmd.Flags().StringVarP(&topicsFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.AddCommand(topicsCmd)
}

package cli

import (
	"fmt"

	"github.com/caddyadm/caddyadm/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var upstreamsCmd = &cobra.Command{
	Use:   "upstreams",
	Short: "Show reverse proxy upstream health",
	Long: `Show the hosts the reverse proxy app currently knows about, with the
number of in-flight requests and failure counts per upstream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		res := client.Upstreams(cmd.Context())
		if res.Failed() {
			return resultError(client, res)
		}

		upstreams := res.Data
		printResult(upstreams, func() {
			if len(upstreams) == 0 {
				fmt.Println("No upstreams configured")
				return
			}

			w := output.Table()
			_, _ = fmt.Fprintln(w, "ADDRESS\tREQUESTS\tFAILS")
			for _, u := range upstreams {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%d\n", u.Address, u.NumRequests, u.Fails)
			}
			_ = w.Flush()
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upstreamsCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Gracefully shut down the server",
	Long: `Ask the server to shut down gracefully.

The server usually terminates the connection mid-response while exiting;
that still counts as a successful stop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := buildClient()
		if err != nil {
			return err
		}

		res := client.Stop(cmd.Context())
		if res.Failed() {
			return resultError(client, res)
		}

		printResult(struct {
			Status string `json:"status"`
		}{"stopped"}, func() {
			fmt.Println("Server stopped")
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

package cli

import (
	"fmt"
	"os"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/spf13/cobra"
)

var caCmd = &cobra.Command{
	Use:   "ca",
	Short: "Inspect the server's managed certificate authorities",
}

var caInfoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Show details of a certificate authority",
	Long: `Show details of a certificate authority managed by the server's PKI
app. Defaults to the "local" CA that the server provisions out of the box.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caID := caddy.DefaultCAID
		if len(args) > 0 {
			caID = args[0]
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		res := client.CAInfo(cmd.Context(), caID)
		if res.Failed() {
			return resultError(client, res)
		}

		ca := res.Data
		printResult(ca, func() {
			fmt.Printf("CA: %s\n", ca.ID)
			if ca.Name != "" {
				fmt.Printf("  Name:              %s\n", ca.Name)
			}
			if ca.RootCommonName != "" {
				fmt.Printf("  Root CN:           %s\n", ca.RootCommonName)
			}
			if ca.IntermediateCommonName != "" {
				fmt.Printf("  Intermediate CN:   %s\n", ca.IntermediateCommonName)
			}
		})
		return nil
	},
}

var caCertsOutput string

var caCertsCmd = &cobra.Command{
	Use:     "certs [id]",
	Aliases: []string{"certificates"},
	Short:   "Print a certificate authority's PEM chain",
	Long: `Print the certificate chain (root and intermediate) of a managed CA
in PEM form. Use --output to write it to a file instead of stdout, e.g. to
install the root into a trust store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caID := caddy.DefaultCAID
		if len(args) > 0 {
			caID = args[0]
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		res := client.CACertificates(cmd.Context(), caID)
		if res.Failed() {
			return resultError(client, res)
		}

		if caCertsOutput != "" {
			if err := os.WriteFile(caCertsOutput, []byte(res.Data), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", caCertsOutput, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote certificate chain to %s\n", caCertsOutput)
			return nil
		}

		fmt.Print(res.Data)
		return nil
	},
}

func init() {
	caCertsCmd.Flags().StringVarP(&caCertsOutput, "output", "o", "", "Write the PEM chain to a file")
	caCmd.AddCommand(caInfoCmd)
	caCmd.AddCommand(caCertsCmd)
	rootCmd.AddCommand(caCmd)
}

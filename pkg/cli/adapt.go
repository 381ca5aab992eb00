package cli

import (
	"encoding/json"
	"fmt"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/caddyadm/caddyadm/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	adaptFormat string
	adaptPretty bool
)

var adaptCmd = &cobra.Command{
	Use:   "adapt [file]",
	Short: "Convert a Caddyfile to JSON without applying it",
	Long: `Convert a config in a raw format (Caddyfile by default) to the native
JSON form and print it, without changing the running configuration.

Useful for inspecting what 'caddyadm load' would apply, or for committing
the JSON form to version control.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 && args[0] != "-" {
			path = args[0]
		}

		data, err := readConfigSource(path)
		if err != nil {
			return err
		}

		contentType, err := resolveFormat(adaptFormat, path, data)
		if err != nil {
			return err
		}
		if contentType == caddy.ContentTypeJSON {
			return fmt.Errorf("input is already JSON; nothing to adapt")
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		res := caddy.Adapt[json.RawMessage](cmd.Context(), client, data, contentType)
		if res.Failed() {
			return resultError(client, res)
		}

		if adaptPretty || jsonOutput {
			return output.Raw(res.Data)
		}
		fmt.Println(string(res.Data))
		return nil
	},
}

func init() {
	adaptCmd.Flags().StringVar(&adaptFormat, "format", "", "Input format (default: caddyfile)")
	adaptCmd.Flags().BoolVar(&adaptPretty, "pretty", false, "Indent the JSON output")
	rootCmd.AddCommand(adaptCmd)
}

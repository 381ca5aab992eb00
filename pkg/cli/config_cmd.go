package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/caddyadm/caddyadm/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var getQuery string

var getCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Read configuration at a path",
	Long: `Read the configuration value at a path. With no path, the entire
configuration is returned.

Paths mirror the JSON document structure, e.g. apps/http/servers/srv0.
Paths starting with id/ look objects up by their @id tag instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		res := caddy.GetConfig[json.RawMessage](cmd.Context(), client, path)
		if res.Failed() {
			return resultError(client, res)
		}

		if getQuery != "" {
			value, err := applyQuery(res.Data, getQuery)
			if err != nil {
				return err
			}
			return output.JSON(value)
		}
		return output.Raw(res.Data)
	},
}

var setData string

var setCmd = &cobra.Command{
	Use:   "set <path> [file]",
	Short: "Write configuration at a path (overwrite)",
	Long: `Write a JSON value at a config path, overwriting any existing value.
Appends when the target is an array.

The value is read from the file argument, from --data, or from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigWrite(cmd, args, "set")
	},
}

var createData string

var createCmd = &cobra.Command{
	Use:   "create <path> [file]",
	Short: "Create configuration at a path (fail if it exists)",
	Long: `Create a JSON value at a config path. Fails when a value already
exists there. Inserts when the target is an array index.

The value is read from the file argument, from --data, or from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigWrite(cmd, args, "create")
	},
}

var updateData string

var updateCmd = &cobra.Command{
	Use:   "update <path> [file]",
	Short: "Replace configuration at a path (fail if missing)",
	Long: `Replace the JSON value at a config path. Fails when no value exists
there yet.

The value is read from the file argument, from --data, or from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigWrite(cmd, args, "update")
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Remove configuration at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		client, err := buildClient()
		if err != nil {
			return err
		}

		res := caddy.DeleteConfig[string](cmd.Context(), client, path)
		if res.Failed() {
			return resultError(client, res)
		}

		printResult(struct {
			Status string `json:"status"`
			Path   string `json:"path"`
		}{"deleted", path}, func() {
			fmt.Printf("Deleted %s\n", path)
		})
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getQuery, "query", "", "JSONPath expression to extract from the result")
	setCmd.Flags().StringVar(&setData, "data", "", "Inline JSON value")
	createCmd.Flags().StringVar(&createData, "data", "", "Inline JSON value")
	updateCmd.Flags().StringVar(&updateData, "data", "", "Inline JSON value")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// runConfigWrite reads the payload and performs a set, create, or update at
// the given path.
func runConfigWrite(cmd *cobra.Command, args []string, op string) error {
	path := args[0]

	var inline string
	switch op {
	case "set":
		inline = setData
	case "create":
		inline = createData
	case "update":
		inline = updateData
	}

	payload, err := readPayload(args, inline)
	if err != nil {
		return err
	}

	client, err := buildClient()
	if err != nil {
		return err
	}

	var res caddy.Result[string]
	switch op {
	case "set":
		res = caddy.SetConfig[string](cmd.Context(), client, path, payload)
	case "create":
		res = caddy.CreateConfig[string](cmd.Context(), client, path, payload)
	case "update":
		res = caddy.UpdateConfig[string](cmd.Context(), client, path, payload)
	}
	if res.Failed() {
		return resultError(client, res)
	}

	printResult(struct {
		Status string `json:"status"`
		Path   string `json:"path"`
	}{op, path}, func() {
		fmt.Printf("Config %s at %s\n", writtenVerb(op), path)
	})
	return nil
}

func writtenVerb(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	default:
		return "written"
	}
}

// readPayload returns the JSON value for a config write: --data when given,
// otherwise the optional file argument ("-" for stdin), otherwise stdin.
func readPayload(args []string, inline string) (json.RawMessage, error) {
	var data []byte
	switch {
	case inline != "":
		data = []byte(inline)
	case len(args) > 1 && args[1] != "-":
		var err error
		data, err = os.ReadFile(args[1])
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
	default:
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}

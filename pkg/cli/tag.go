package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <path> [id]",
	Short: "Attach an @id handle to a configuration object",
	Long: `Attach an @id handle to the configuration object at a path. Tagged
objects can then be addressed directly as id/<id>, which stays stable when
the surrounding structure moves.

When no id is given, a random one is generated.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := strings.Trim(args[0], "/")
		id := uuid.NewString()
		if len(args) > 1 {
			id = args[1]
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		// Make sure something exists at the path before tagging it.
		probe := caddy.GetConfig[json.RawMessage](cmd.Context(), client, path)
		if probe.Failed() {
			return resultError(client, probe)
		}
		if strings.TrimSpace(string(probe.Data)) == "null" {
			return fmt.Errorf("no config at %s", path)
		}

		idJSON, err := json.Marshal(id)
		if err != nil {
			return err
		}
		res := caddy.SetConfig[string](cmd.Context(), client, path+"/@id", json.RawMessage(idJSON))
		if res.Failed() {
			return resultError(client, res)
		}

		printResult(struct {
			Path string `json:"path"`
			ID   string `json:"id"`
		}{path, id}, func() {
			fmt.Printf("Tagged %s as %q\n", path, id)
			fmt.Printf("Address it with: caddyadm get id/%s\n", id)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

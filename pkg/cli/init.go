package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/caddyadm/caddyadm/pkg/cliconfig"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	initAdminURL    string
	initUsername    string
	initPassword    string
	initContextName string
	initForce       bool
	initOutput      string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file and default context",
	Long: `Create a .caddyadmrc.yaml in the current directory and register a
context for the admin endpoint.

Without --admin-url the command runs interactively and prompts for the
endpoint and optional basic auth credentials.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if file already exists
		if _, err := os.Stat(initOutput); err == nil && !initForce {
			return fmt.Errorf("file already exists: %s\n\nUse --force to overwrite", initOutput)
		}

		if !cmd.Flags().Changed("admin-url") {
			if err := runInitForm(); err != nil {
				return err
			}
		}

		if initAdminURL == "" {
			initAdminURL = "http://localhost:2019"
		}
		parsed, err := url.Parse(initAdminURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("invalid admin URL %q: must start with http:// or https://", initAdminURL)
		}
		if initPassword != "" && initUsername == "" {
			return errors.New("--password requires --username")
		}

		// Write the config file
		fileCfg := struct {
			AdminURL string `yaml:"adminUrl"`
			Timeout  int    `yaml:"timeout"`
		}{initAdminURL, cliconfig.DefaultTimeout}

		data, err := yaml.Marshal(fileCfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if err := os.WriteFile(initOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", initOutput, err)
		}

		// Register the context
		ctxCfg, err := cliconfig.LoadContextConfig()
		if err != nil {
			return fmt.Errorf("failed to load context config: %w", err)
		}
		ctx := &cliconfig.Context{
			AdminURL: initAdminURL,
			Username: initUsername,
			Password: initPassword,
		}
		if existing, ok := ctxCfg.Contexts[initContextName]; ok {
			*existing = *ctx
		} else if err := ctxCfg.AddContext(initContextName, ctx); err != nil {
			return err
		}
		ctxCfg.CurrentContext = initContextName
		if err := cliconfig.SaveContextConfig(ctxCfg); err != nil {
			return fmt.Errorf("failed to save context config: %w", err)
		}

		fmt.Printf("Wrote %s\n", initOutput)
		fmt.Printf("Context %q now points at %s\n", initContextName, initAdminURL)
		fmt.Println("\nTry: caddyadm get")
		return nil
	},
}

// runInitForm prompts for the admin endpoint settings.
func runInitForm() error {
	useAuth := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where is the Caddy admin API?").
				Placeholder("http://localhost:2019").
				Value(&initAdminURL).
				Validate(func(s string) error {
					if s == "" {
						return nil // falls back to the default
					}
					u, err := url.Parse(s)
					if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
						return errors.New("must start with http:// or https://")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Does the endpoint require HTTP basic auth?").
				Value(&useAuth),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if useAuth {
		authForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&initUsername).
					Validate(func(s string) error {
						if s == "" {
							return errors.New("username is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&initPassword),
			),
		)
		if err := authForm.Run(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	initCmd.Flags().StringVar(&initAdminURL, "admin-url", "", "Admin API URL (skips the interactive prompt)")
	initCmd.Flags().StringVar(&initUsername, "username", "", "HTTP basic auth username")
	initCmd.Flags().StringVar(&initPassword, "password", "", "HTTP basic auth password")
	initCmd.Flags().StringVar(&initContextName, "context-name", cliconfig.DefaultContextName, "Name for the created context")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", ".caddyadmrc.yaml", "Output filename")
	rootCmd.AddCommand(initCmd)
}

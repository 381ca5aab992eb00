package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caddyadm/caddyadm/pkg/caddy"
	"github.com/caddyadm/caddyadm/pkg/cli/internal/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	loadFormat string
	loadWatch  bool
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Push a full configuration to the server",
	Long: `Push a full configuration to the server, replacing the running config.

The input is a Caddyfile by default. Pass --format json (or name the file
with a .json extension) to load native JSON config. Reading from stdin is
supported with "-" or by omitting the file argument.

With --watch, caddyadm stays in the foreground and re-applies the file
every time it changes. A failed reload is reported but does not stop
watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 && args[0] != "-" {
			path = args[0]
		}

		if loadWatch && path == "" {
			return fmt.Errorf("--watch requires a file argument")
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		if err := loadOnce(cmd.Context(), client, path); err != nil {
			return err
		}

		if !loadWatch {
			return nil
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl-C to stop)\n", path)
		return watchAndReload(ctx, path, func() error {
			return loadOnce(ctx, client, path)
		})
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFormat, "format", "", "Config format: caddyfile or json (default: inferred)")
	loadCmd.Flags().BoolVar(&loadWatch, "watch", false, "Reload the file whenever it changes")
	rootCmd.AddCommand(loadCmd)
}

// loadOnce reads the config source and applies it to the server.
func loadOnce(ctx context.Context, client *caddy.Client, path string) error {
	data, err := readConfigSource(path)
	if err != nil {
		return err
	}

	contentType, err := resolveFormat(loadFormat, path, data)
	if err != nil {
		return err
	}

	var res caddy.Result[string]
	if contentType == caddy.ContentTypeJSON {
		res = caddy.Load[string](ctx, client, json.RawMessage(data), contentType)
	} else {
		res = caddy.Load[string](ctx, client, data, contentType)
	}
	if res.Failed() {
		return resultError(client, res)
	}

	printResult(struct {
		Status string `json:"status"`
		Source string `json:"source,omitempty"`
	}{"loaded", path}, func() {
		if path == "" {
			fmt.Println("Configuration applied")
		} else {
			fmt.Printf("Configuration applied from %s\n", path)
		}
	})
	return nil
}

// readConfigSource reads the config from a file, or stdin when path is empty.
func readConfigSource(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// resolveFormat maps the --format flag (or the file name and content when
// the flag is unset) to a request content type.
func resolveFormat(format, path string, data []byte) (string, error) {
	switch strings.ToLower(format) {
	case "caddyfile":
		return caddy.ContentTypeCaddyfile, nil
	case "json":
		return caddy.ContentTypeJSON, nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q (must be caddyfile or json)", format)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return caddy.ContentTypeJSON, nil
	}
	if path == "" {
		// Sniff stdin: JSON config always starts with an object brace.
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "{") {
			return caddy.ContentTypeJSON, nil
		}
	}
	return caddy.ContentTypeCaddyfile, nil
}

// watchAndReload re-runs reload whenever the file changes, until ctx is
// done. Events are debounced since editors produce bursts of writes, and
// the parent directory is watched because many editors replace the file
// on save.
func watchAndReload(ctx context.Context, path string, reload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(abs) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			output.Warn("watch error: %v", err)
		case <-pending:
			if err := reload(); err != nil {
				output.Warn("reload failed: %v", err)
			}
		}
	}
}

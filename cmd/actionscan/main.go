// Command actionscan lists the delegated actions server-rendered templates
// declare and checks them against a manifest of registered handlers.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/ecs-webui/internal/ui/actionscan"
	"github.com/Its-donkey/ecs-webui/logging"
)

var errUnregistered = errors.New("templates declare unregistered actions")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "actionscan: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		manifestPath string
		extensions   []string
		emitManifest bool
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "actionscan [paths...]",
		Short: "Inventory data-action and data-on-* attributes in templates",
		Long: `actionscan parses HTML and Jinja templates and prints every action name
declared in data-action, data-on-change, data-on-input, data-on-submit and
data-on-keydown attributes as JSON. With --manifest it exits non-zero when a
template names an action the manifest does not list.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New("actionscan", logging.ParseLevel(logLevel), stderr)

			occ, err := actionscan.ScanPaths(args, extensions)
			if err != nil {
				return err
			}
			logger.Info("scan", "scanned templates", map[string]any{
				"paths":       args,
				"occurrences": len(occ),
				"actions":     len(actionscan.Actions(occ)),
			})

			if emitManifest {
				data, err := actionscan.MarshalManifest(occ)
				if err != nil {
					return err
				}
				_, err = stdout.Write(data)
				return err
			}

			if manifestPath == "" {
				return writeJSON(stdout, occ)
			}

			manifest, err := actionscan.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			missing := actionscan.Unregistered(occ, manifest)
			if err := writeJSON(stdout, missing); err != nil {
				return err
			}
			for _, o := range missing {
				logger.Warn("manifest", "action not registered", map[string]any{
					"file":   o.File,
					"event":  string(o.Event),
					"action": o.Action,
				})
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %d", errUnregistered, len(missing))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest of registered action names")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "template suffixes to scan (default .html,.htm,.tmpl,.jinja,.j2)")
	cmd.Flags().BoolVar(&emitManifest, "emit-manifest", false, "print the found actions as a YAML manifest instead of JSON")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level for stderr output (debug, info, warn, error)")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

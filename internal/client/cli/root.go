package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophdocs/internal/client/config"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
)

type rootOptions struct {
	configPath string
	askKey     bool
	verbose    bool
}

// Run executes the command line args and releases the baseline store.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd, a := newRootCommand(in, out, errOut)
	defer a.Close()

	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand builds the gophdocs command tree reading from in and
// printing to out and errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmd, _ := newRootCommand(in, out, errOut)
	return cmd
}

func newRootCommand(in io.Reader, out, errOut io.Writer) (*cobra.Command, *App) {
	var opts rootOptions
	a := newApp(in, out, errOut)

	cmd := &cobra.Command{
		Use:           "gophdocs",
		Short:         "Client for a remote JSON document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.format != formatJSON && a.format != formatYAML {
				return fmt.Errorf("unknown output format %q", a.format)
			}

			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if opts.askKey {
				if cfg.APIKey, err = GetAPIKey(in, errOut); err != nil {
					return fmt.Errorf("read API key: %w", err)
				}
			}

			return a.init(cmd.Context(), cfg, logging.New(errOut, opts.verbose))
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "JSON configuration file")
	pf.BoolVar(&opts.askKey, "ask-key", false, "prompt for the API key")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")
	pf.StringVarP(&a.format, "output", "o", formatJSON, "output format: json or yaml")
	config.RegisterFlags(pf)

	cmd.AddCommand(
		newCollectionsCommand(a),
		newGetCommand(a),
		newQueryCommand(a),
		newVersionsCommand(a),
		newInsertCommand(a),
		newSetCommand(a),
		newDeleteCommand(a),
		newMapReduceCommand(a),
		newAttachCommand(a),
		newDownloadCommand(a),
		newBaselinesCommand(a),
	)
	return cmd, a
}

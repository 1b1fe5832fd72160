package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/litelayout/config"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) { version = v }

// Execute runs the CLI with ctx and returns an error if any command fails.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. The logger and configuration are
// attached to the command context before any subcommand runs.
func NewRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           "litelayout",
		Short:         "litelayout lays out column/row screens and renders the result",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("配置已加载", "path", configPath, "format", cfg.Format, "fonts", len(cfg.Fonts))
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withConfig(withLogger(ctx, logger), cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("litelayout %s\n", version))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+config.FileName+" if present)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newFramesCmd())
	root.AddCommand(newMeasureCmd())
	root.AddCommand(newPreviewCmd())

	return root
}

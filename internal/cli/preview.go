package cli

import (
	"github.com/spf13/cobra"

	termrenderer "github.com/ByLCY/litelayout/renderer/term"
)

type previewOpts struct {
	sceneFlags
	cellWidth  int
	cellHeight int
	noColor    bool
}

func newPreviewCmd() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Lay out a screen and draw the frames in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVar(&opts.cellWidth, "cell-width", 0, "pixels per character column (default from config)")
	cmd.Flags().IntVar(&opts.cellHeight, "cell-height", 0, "pixels per character row (default from config)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")

	return cmd
}

func runPreview(cmd *cobra.Command, input string, opts *previewOpts) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	result, err := opts.buildScene(ctx, input, newCanvasRenderer(cfg, input, "", false))
	if err != nil {
		return err
	}

	popts := termrenderer.Options{
		CellWidth:  cfg.Preview.CellWidth,
		CellHeight: cfg.Preview.CellHeight,
		NoColor:    cfg.Preview.NoColor || opts.noColor,
	}
	if opts.cellWidth > 0 {
		popts.CellWidth = opts.cellWidth
	}
	if opts.cellHeight > 0 {
		popts.CellHeight = opts.cellHeight
	}
	data, err := termrenderer.NewRenderer(popts).Render(result)
	if err != nil {
		return err
	}
	return writeOutput(cmd, "-", data)
}

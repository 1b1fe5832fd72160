package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/ByLCY/litelayout/scene"
)

type framesOpts struct {
	sceneFlags
	output string
}

func newFramesCmd() *cobra.Command {
	var opts framesOpts

	cmd := &cobra.Command{
		Use:   "frames [file]",
		Short: "Lay out a screen and print the absolute frames as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFrames(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "include constraints, parent data and policy per frame")

	return cmd
}

func runFrames(cmd *cobra.Command, input string, opts *framesOpts) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)
	result, err := opts.buildScene(ctx, input, newCanvasRenderer(cfg, input, "", false))
	if err != nil {
		return err
	}
	if opts.output != "-" {
		if err := scene.WriteDebugJSON(result, opts.output); err != nil {
			return err
		}
		loggerFromContext(ctx).Infof("已生成 %s", opts.output)
		return nil
	}
	var buf bytes.Buffer
	if err := scene.EncodeJSON(&buf, result); err != nil {
		return err
	}
	return writeOutput(cmd, "-", buf.Bytes())
}

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ByLCY/litelayout/scene"
)

type measureOpts struct {
	sceneFlags
	json bool
}

func newMeasureCmd() *cobra.Command {
	var opts measureOpts

	cmd := &cobra.Command{
		Use:   "measure [file]",
		Short: "Print the intrinsic sizes of a screen's root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the sizes as JSON")

	return cmd
}

func runMeasure(cmd *cobra.Command, input string, opts *measureOpts) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	doc, data, err := opts.loadInputs(ctx, input)
	if err != nil {
		return err
	}
	ts := newCanvasRenderer(cfg, input, "", false)
	tree, err := scene.BuildTree(doc, data, opts.buildOptions(cfg, ts))
	if err != nil {
		return fmt.Errorf("构建布局树失败: %w", err)
	}
	sizes, err := scene.Intrinsics(tree.Root, tree.Viewport, ts)
	if err != nil {
		return fmt.Errorf("固有尺寸计算失败: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sizes)
	}
	vp := tree.Viewport
	printTitle(out, "%s", input)
	printDetail(out, "screen %dx%d px, 1dp = %gpx, 1sp = %gpx", vp.Width, vp.Height, vp.Density.ToPx(1), vp.Density.SpToPx(1))
	printKeyValue(out, "min intrinsic width", strconv.Itoa(sizes.MinWidth))
	printKeyValue(out, "max intrinsic width", strconv.Itoa(sizes.MaxWidth))
	printKeyValue(out, "min intrinsic height", fmt.Sprintf("%d (width %d)", sizes.MinHeight, vp.Width))
	printKeyValue(out, "max intrinsic height", fmt.Sprintf("%d (width %d)", sizes.MaxHeight, vp.Width))
	if !vp.Scroll && sizes.MinHeight > vp.Height {
		printDetail(out, "content needs %d px but the screen is %d px high; add scroll to the screen", sizes.MinHeight, vp.Height)
	}
	return nil
}

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// validFormats is the set of supported render output formats.
var validFormats = map[string]bool{"pdf": true, "svg": true}

type renderOpts struct {
	sceneFlags
	output  string // output path, "-" for stdout
	format  string // pdf or svg; empty uses the config default
	outline bool   // stroke every frame
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Lay out a screen and render it to PDF or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: pdf, svg (default from config)")
	cmd.Flags().BoolVar(&opts.outline, "outline", false, "outline every frame")

	return cmd
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	format, err := resolveFormat(opts.format, opts.output, cfg.Format)
	if err != nil {
		return err
	}
	r := newCanvasRenderer(cfg, input, format, opts.outline)
	result, err := opts.buildScene(ctx, input, r)
	if err != nil {
		return err
	}

	p := newProgress(logger)
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 %s 失败: %w", strings.ToUpper(format), err)
	}
	p.done(fmt.Sprintf("已渲染 %s: %d bytes", format, len(data)))

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := writeOutput(cmd, output, data); err != nil {
		return err
	}
	if output != "-" {
		logger.Infof("已生成 %s", output)
	}
	return nil
}

// resolveFormat 优先使用 --format，其次输出文件扩展名，最后是配置默认值。
func resolveFormat(flag, output, fallback string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); validFormats[ext] {
			format = ext
		}
	}
	if format == "" {
		format = strings.ToLower(fallback)
	}
	if format == "" {
		format = "pdf"
	}
	if !validFormats[format] {
		return "", fmt.Errorf("invalid format: %s (must be 'pdf' or 'svg')", format)
	}
	return format, nil
}

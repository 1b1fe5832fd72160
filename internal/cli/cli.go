// Package cli implements the litelayout command-line interface.
//
// Commands parse a screen description, lay it out with the column/row
// policies and then either render it (PDF/SVG), dump the frames as JSON,
// print the root's intrinsic sizes or preview the frames in the terminal.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context together with the loaded configuration.
package cli

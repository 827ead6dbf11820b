// Command glslinfo reports the interface of a GLSL shader.
//
// Usage:
//
//	glslinfo [options] <input>
//
// Examples:
//
//	glslinfo shader.frag                      # Text report
//	glslinfo -f json shader.vert              # JSON
//	glslinfo -o info.yaml -f yaml shader.comp # YAML to a file
//	glslinfo --verbose shader.vert            # Log skipped declarations
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/gogpu/glslinfo"
	"github.com/gogpu/glslinfo/internal/logging"
	"github.com/gogpu/glslinfo/internal/render"
	"github.com/gogpu/glslinfo/shaderinfo"
)

const glslinfoVersion = "0.1.0-dev"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).RunContext(ctx, args)
	if err == nil {
		return exitOK
	}

	var perr *glslinfo.ParseError
	var uerr *usageError
	switch {
	case errors.As(err, &perr):
		n := perr.Diagnostics.Len()
		fmt.Fprint(stderr, perr.FormatAll())
		fmt.Fprintf(stderr, "glslinfo: %d parse %s\n", n, shaderinfo.Pluralize("error", n))
		return exitError
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "glslinfo: %v\n", uerr)
		fmt.Fprintln(stderr, "Run 'glslinfo --help' for usage.")
		return exitUsage
	default:
		fmt.Fprintf(stderr, "glslinfo: %v\n", err)
		return exitError
	}
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            "glslinfo",
		Usage:           "report the inputs, outputs, uniforms and blocks of a GLSL shader",
		ArgsUsage:       "<input>",
		Version:         glslinfoVersion,
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(render.FormatText),
				Usage:   "output format: " + formatNames(),
				EnvVars: []string{"GLSLINFO_FORMAT"},
			},
			&cli.StringFlag{
				Name:      "output",
				Aliases:   []string{"o"},
				Usage:     "output file (default: stdout)",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:    "flatten-anonymous-blocks",
				Value:   true,
				Usage:   "report members of blocks without an instance name as variables",
				EnvVars: []string{"GLSLINFO_FLATTEN_ANONYMOUS_BLOCKS"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log skipped and unresolved declarations to stderr",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored output",
				EnvVars: []string{"NO_COLOR"},
			},
		},
		Action: action,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return &usageError{err: err}
		},
		// Exit codes are decided by run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func action(c *cli.Context) error {
	if c.NArg() != 1 {
		return &usageError{err: errors.Errorf("expected exactly one input file, got %d", c.NArg())}
	}
	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return &usageError{err: err}
	}

	color := !c.Bool("no-color")
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	ctx := logging.Setup(c.Context, c.App.ErrWriter, level, color)

	inputPath := c.Args().First()
	ctx = slogctx.With(ctx, "file", inputPath)

	// Read input file
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Errorf("reading input: %w", err)
	}

	opts := shaderinfo.DefaultOptions()
	opts.FlattenAnonymousBlocks = c.Bool("flatten-anonymous-blocks")

	info, err := glslinfo.GetInfoContext(ctx, string(source), opts)
	if err != nil {
		return err
	}
	slogctx.Debug(ctx, "writing report", "format", string(format), "summary", info.String())

	// Write output
	outputPath := c.String("output")
	if outputPath == "" {
		return render.Write(c.App.Writer, info, format, render.Options{Color: color})
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return errors.Errorf("creating output: %w", err)
	}
	if err := render.Write(f, info, format, render.Options{}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing output: %w", err)
	}
	return nil
}

func formatNames() string {
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

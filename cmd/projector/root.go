package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"projector/internal/version"
)

type rootOptions struct {
	configPath     string
	snapshot       string
	namespace      string
	usings         []string
	color          string
	diagFormat     string
	maxDiagnostics int
	jobs           int

	traceOutput string
	traceLevel  string
	traceMode   string
	traceRing   int

	timings    bool
	cpuProfile string
	memProfile string
	rtTrace    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "projector",
		Short: "Print metadata types as C# declarations",
		Long: `projector loads a type-system snapshot and prints its types and members
as C# declarations, naming every type the way it would be written in the
configured namespace and using directives.

Without --snapshot the built-in Acme.Geometry sample library is used.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyColor(opts.color, cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default: ./"+configFileName+" when present)")
	flags.StringVarP(&opts.snapshot, "snapshot", "s", "", "model snapshot written by `projector sample` or an importer")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "override the namespace declarations are printed in")
	flags.StringArrayVarP(&opts.usings, "using", "u", nil, "add a using directive (repeatable)")
	flags.StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")
	flags.StringVar(&opts.diagFormat, "diagnostics", "pretty", "diagnostics format (pretty|json)")
	flags.IntVar(&opts.maxDiagnostics, "max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.IntVarP(&opts.jobs, "jobs", "j", -1, "parallel projections (0 = one per CPU; default from config)")
	flags.StringVar(&opts.traceOutput, "trace", "", "trace output file (- for stderr)")
	flags.StringVar(&opts.traceLevel, "trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.StringVar(&opts.traceMode, "trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.IntVar(&opts.traceRing, "trace-ring-size", 4096, "events kept by the ring tracer")
	flags.BoolVar(&opts.timings, "timings", false, "print phase timings to stderr")
	flags.StringVar(&opts.cpuProfile, "cpu-profile", "", "write a CPU profile")
	flags.StringVar(&opts.memProfile, "mem-profile", "", "write a heap profile on exit")
	flags.StringVar(&opts.rtTrace, "runtime-trace", "", "write a Go runtime execution trace")

	root.AddCommand(newDeclCmd(opts))
	root.AddCommand(newTypesCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newSampleCmd())
	root.AddCommand(newVersionCmd())
	return root
}

var errBadColorMode = errors.New("invalid --color value")

// applyColor sets the process-wide color switch used by fatih/color.
func applyColor(mode string, cmd *cobra.Command) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		f, ok := cmd.OutOrStdout().(*os.File)
		color.NoColor = !ok || !isTerminal(f)
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		return fmt.Errorf("%w %q (expected auto|on|off)", errBadColorMode, mode)
	}
	return nil
}
